package fasub

import (
	"regexp"
	"strings"
	"time"
)

var ordinalRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

// Date templates used by the site across eras. Either era may spell the
// month in full or abbreviated.
var (
	dateLayouts        = []string{"Jan 2, 2006 3:04 PM", "January 2, 2006 3:04 PM"}
	dateLayoutsSeconds = []string{"Jan 2, 2006 3:04:05 PM", "January 2, 2006 3:04:05 PM"}
)

// siteZone is the fixed offset of every timestamp the site displays.
var siteZone = time.FixedZone("UTC-5", -5*60*60)

// StripOrdinals removes ordinal suffixes following a one or two digit day
// number, turning "23rd" into "23".
func StripOrdinals(text string) string {
	return ordinalRe.ReplaceAllString(text, "${1}")
}

// ParseDate converts site date text such as "Mar 23rd, 2019 12:46 AM" into
// a UTC instant.
func ParseDate(text string) (time.Time, error) {
	cleaned := StripOrdinals(strings.Join(strings.Fields(text), " "))

	layouts := dateLayouts
	if strings.Count(cleaned, ":") == 2 {
		layouts = dateLayoutsSeconds
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, cleaned, siteZone); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, DateError(text)
}

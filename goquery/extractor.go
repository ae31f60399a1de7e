// Package goquery implements fasub.Extractor with CSS locators evaluated by
// goquery. Locators come from a Profile compiled once at construction.
package goquery

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/fasub"
)

// Ensure Extractor implements fasub.Extractor at compile time.
var _ fasub.Extractor = (*Extractor)(nil)

// Extractor parses site pages using a compiled Profile.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	profile Profile

	errorNotice      cascadia.Selector
	title            cascadia.Selector
	artist           cascadia.Selector
	image            cascadia.Selector
	animation        cascadia.Selector
	postedAt         cascadia.Selector
	tags             cascadia.Selector
	description      cascadia.Selector
	rating           cascadia.Selector
	latestSubmission cascadia.Selector
	onlineStats      cascadia.Selector
	navLinks         cascadia.Selector
}

// NewExtractor compiles the profile's locators.
func NewExtractor(profile Profile) (*Extractor, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	// Validate has already compiled each locator once.
	return &Extractor{
		profile:          profile,
		errorNotice:      cascadia.MustCompile(profile.ErrorNotice),
		title:            cascadia.MustCompile(profile.Title),
		artist:           cascadia.MustCompile(profile.Artist),
		image:            cascadia.MustCompile(profile.Image),
		animation:        cascadia.MustCompile(profile.Animation),
		postedAt:         cascadia.MustCompile(profile.PostedAt),
		tags:             cascadia.MustCompile(profile.Tags),
		description:      cascadia.MustCompile(profile.Description),
		rating:           cascadia.MustCompile(profile.Rating),
		latestSubmission: cascadia.MustCompile(profile.LatestSubmission),
		onlineStats:      cascadia.MustCompile(profile.OnlineStats),
		navLinks:         cascadia.MustCompile(profile.NavLinks),
	}, nil
}

// Profile returns the profile the extractor was built with.
func (e *Extractor) Profile() Profile {
	return e.profile
}

// ExtractSubmission parses a view page. Returns nil and no error when the
// page reports that the submission does not exist.
func (e *Extractor) ExtractSubmission(id int, html string) (*fasub.Submission, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	if e.notFound(doc) {
		return nil, nil
	}

	title, err := e.extractTitle(doc)
	if err != nil {
		return nil, err
	}

	artist, err := e.extractArtist(doc)
	if err != nil {
		return nil, err
	}

	content, err := e.resolveContent(doc)
	if err != nil {
		return nil, err
	}

	rating, err := e.extractRating(doc)
	if err != nil {
		return nil, err
	}

	postedAt, err := e.extractPostedAt(doc)
	if err != nil {
		return nil, err
	}

	description, err := e.extractDescription(doc)
	if err != nil {
		return nil, err
	}

	sub := fasub.NewSubmission(id, content)
	sub.Title = title
	sub.Artist = artist
	sub.Rating = rating
	sub.PostedAt = postedAt
	sub.Tags = e.extractTags(doc)
	sub.Description = description
	return sub, nil
}

// notFound checks both "does not exist" signals.
func (e *Extractor) notFound(doc *goquery.Document) bool {
	if strings.TrimSpace(doc.Find("title").First().Text()) == e.profile.NotFoundTitle {
		return true
	}
	return doc.FindMatcher(e.errorNotice).Length() > 0
}

func (e *Extractor) extractTitle(doc *goquery.Document) (string, error) {
	sel := doc.FindMatcher(e.title).First()
	if sel.Length() == 0 {
		return "", fasub.MissingFieldError("title")
	}
	title := joinText(sel)
	if title == "" {
		return "", fasub.MissingFieldError("title")
	}
	return title, nil
}

// extractArtist reads the handle from the profile link path rather than the
// link text, which may hold a display name.
func (e *Extractor) extractArtist(doc *goquery.Document) (string, error) {
	sel := doc.FindMatcher(e.artist).First()
	if sel.Length() == 0 {
		return "", fasub.MissingFieldError("artist")
	}
	href, ok := sel.Attr("href")
	if !ok {
		return "", fasub.MissingAttributeError("artist", "href")
	}

	idx := strings.Index(href, e.profile.ArtistPathPrefix)
	if idx == -1 {
		return "", fasub.MissingFieldError("artist")
	}
	handle := href[idx+len(e.profile.ArtistPathPrefix):]
	if end := strings.Index(handle, "/"); end != -1 {
		handle = handle[:end]
	}
	if handle == "" {
		return "", fasub.MissingFieldError("artist")
	}
	return handle, nil
}

func (e *Extractor) extractRating(doc *goquery.Document) (fasub.Rating, error) {
	sel := doc.FindMatcher(e.rating).First()
	if sel.Length() == 0 {
		return 0, fasub.MissingFieldError("submission rating")
	}
	return fasub.ParseRating(joinText(sel))
}

// extractPostedAt prefers the attribute holding the full timestamp and
// falls back to the element text, which holds it under some user settings.
func (e *Extractor) extractPostedAt(doc *goquery.Document) (time.Time, error) {
	sel := doc.FindMatcher(e.postedAt).First()
	if sel.Length() == 0 {
		return time.Time{}, fasub.MissingFieldError("posted at")
	}

	attr, _ := sel.Attr(e.profile.PostedAtAttr)
	attr = strings.TrimSpace(attr)
	if attr != "" {
		t, err := fasub.ParseDate(attr)
		if err == nil {
			return t, nil
		}
		if t, textErr := fasub.ParseDate(joinText(sel)); textErr == nil {
			return t, nil
		}
		return time.Time{}, err
	}
	return fasub.ParseDate(joinText(sel))
}

func (e *Extractor) extractTags(doc *goquery.Document) []string {
	tags := []string{}
	doc.FindMatcher(e.tags).Each(func(_ int, sel *goquery.Selection) {
		tags = append(tags, joinText(sel))
	})
	return tags
}

func (e *Extractor) extractDescription(doc *goquery.Document) (string, error) {
	sel := doc.FindMatcher(e.description).First()
	if sel.Length() == 0 {
		return "", fasub.MissingFieldError("description")
	}
	description, err := sel.Html()
	if err != nil {
		return "", fasub.Errorf(false, "unable to render description: %v", err)
	}
	return description, nil
}

// ExtractLatestID returns the newest submission id linked from the front page.
func (e *Extractor) ExtractLatestID(html string) (int, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return 0, err
	}

	sel := doc.FindMatcher(e.latestSubmission).First()
	if sel.Length() == 0 {
		return 0, fasub.Errorf(false, "unable to find value: latest submission")
	}
	href, ok := sel.Attr("href")
	if !ok {
		return 0, fasub.Errorf(false, "unable to find value: latest submission href")
	}

	var last string
	for _, part := range strings.Split(href, "/") {
		if part != "" {
			last = part
		}
	}
	if last == "" {
		return 0, fasub.Errorf(false, "part not found in %q", href)
	}

	id, err := strconv.Atoi(last)
	if err != nil {
		return 0, fasub.ParseIntError("latest submission", last)
	}
	return id, nil
}

var numberRe = regexp.MustCompile(`\d[\d,]*`)

// ExtractOnlineCounts maps the first four numbers of the online status text
// to total, guests, registered and other. Absent numbers are zero.
func (e *Extractor) ExtractOnlineCounts(html string) (*fasub.OnlineCounts, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	text := doc.FindMatcher(e.onlineStats).First().Text()

	var nums [4]int
	for i, run := range numberRe.FindAllString(text, len(nums)) {
		n, err := strconv.Atoi(strings.ReplaceAll(run, ",", ""))
		if err != nil {
			continue
		}
		nums[i] = n
	}

	return &fasub.OnlineCounts{
		Total:      nums[0],
		Guests:     nums[1],
		Registered: nums[2],
		Other:      nums[3],
	}, nil
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fasub.Errorf(false, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// joinText concatenates all descendant text nodes and trims the result.
func joinText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

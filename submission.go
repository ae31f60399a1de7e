package fasub

import (
	"strings"
	"time"
)

// Rating is the content rating assigned to a submission.
// The zero value is not a valid rating.
type Rating int

// Supported ratings.
const (
	RatingGeneral Rating = iota + 1
	RatingMature
	RatingAdult
)

// ParseRating parses the label shown on a submission page.
func ParseRating(text string) (Rating, error) {
	switch text {
	case "General":
		return RatingGeneral, nil
	case "Mature":
		return RatingMature, nil
	case "Adult":
		return RatingAdult, nil
	}
	return 0, RatingError(text)
}

// ParseRatingCode parses the compact storage code returned by Code.
func ParseRatingCode(code string) (Rating, error) {
	switch code {
	case "g":
		return RatingGeneral, nil
	case "m":
		return RatingMature, nil
	case "a":
		return RatingAdult, nil
	}
	return 0, RatingError(code)
}

// String returns the rating label as displayed by the site.
func (r Rating) String() string {
	switch r {
	case RatingGeneral:
		return "General"
	case RatingMature:
		return "Mature"
	case RatingAdult:
		return "Adult"
	}
	return ""
}

// Code returns the single-letter storage code for the rating.
func (r Rating) Code() string {
	switch r {
	case RatingGeneral:
		return "g"
	case RatingMature:
		return "m"
	case RatingAdult:
		return "a"
	}
	return ""
}

// MarshalText encodes the rating as its label.
func (r Rating) MarshalText() ([]byte, error) {
	if r.String() == "" {
		return nil, RatingError("")
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rating label.
func (r *Rating) UnmarshalText(b []byte) error {
	v, err := ParseRating(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ContentKind identifies the kind of media a submission carries.
type ContentKind string

// Content kinds. Every switch over ContentKind handles both.
const (
	ContentImage     ContentKind = "image"
	ContentAnimation ContentKind = "animation"
)

// Content is the media referenced by a submission. Construct it with
// NewImage or NewAnimation.
type Content struct {
	Kind ContentKind `json:"kind"`
	URL  string      `json:"url"`
}

// NewImage returns raster image content at url.
func NewImage(url string) Content {
	return Content{Kind: ContentImage, URL: url}
}

// NewAnimation returns animation or embedded-object content at url.
func NewAnimation(url string) Content {
	return Content{Kind: ContentAnimation, URL: url}
}

// ResolveContentURL makes a scheme-relative asset reference absolute.
func ResolveContentURL(ref string) string {
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	return ref
}

// placeholderExtension is used when the content path has no extension.
const placeholderExtension = "a"

// Extension returns the lower-case text after the final "." of the URL
// path, or a placeholder when the path has none.
func (c Content) Extension() string {
	name := c.Filename()
	idx := strings.LastIndex(name, ".")
	if idx == -1 || idx == len(name)-1 {
		return placeholderExtension
	}
	return strings.ToLower(name[idx+1:])
}

// Filename returns the final path segment of the URL.
func (c Content) Filename() string {
	p := contentPath(c.URL)
	return p[strings.LastIndex(p, "/")+1:]
}

// contentPath strips the scheme, query and fragment from a URL.
func contentPath(u string) string {
	if i := strings.IndexAny(u, "?#"); i != -1 {
		u = u[:i]
	}
	if i := strings.Index(u, "://"); i != -1 {
		u = u[i+3:]
	}
	return u
}

// Submission is the record extracted from a single view page.
// A Submission is built whole by an Extractor; Fingerprint stays nil until
// WithFingerprint is applied, and always for animation content.
type Submission struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	Content     Content      `json:"content"`
	Extension   string       `json:"extension"`
	Filename    string       `json:"filename"`
	Rating      Rating       `json:"rating"`
	PostedAt    time.Time    `json:"postedAt"`
	Tags        []string     `json:"tags"`
	Description string       `json:"description"`
	Fingerprint *Fingerprint `json:"fingerprint,omitempty"`
}

// NewSubmission returns a submission whose Extension and Filename are
// derived from content.
func NewSubmission(id int, content Content) *Submission {
	return &Submission{
		ID:        id,
		Content:   content,
		Extension: content.Extension(),
		Filename:  content.Filename(),
	}
}

// Validate returns an error if the submission breaks a record invariant.
func (s *Submission) Validate() error {
	if s.Title == "" {
		return Errorf(false, "submission title required")
	}
	if s.Artist == "" {
		return Errorf(false, "submission artist required")
	}
	switch s.Content.Kind {
	case ContentImage, ContentAnimation:
	default:
		return InvalidSubmissionTypeError()
	}
	if s.Content.URL == "" {
		return Errorf(false, "submission content URL required")
	}
	if s.Extension != s.Content.Extension() || s.Filename != s.Content.Filename() {
		return Errorf(false, "submission extension and filename must match content URL")
	}
	if s.Rating.String() == "" {
		return RatingError("")
	}
	if s.PostedAt.Location() != time.UTC {
		return Errorf(false, "submission posted at must be UTC")
	}
	if s.Content.Kind == ContentAnimation && s.Fingerprint != nil {
		return Errorf(false, "animation submissions cannot carry a fingerprint")
	}
	return nil
}

// WithFingerprint returns a copy of the submission with fp attached.
// The receiver is left unchanged.
func (s *Submission) WithFingerprint(fp *Fingerprint) *Submission {
	cp := *s
	cp.Tags = append([]string(nil), s.Tags...)
	cp.Fingerprint = fp
	return &cp
}

// NavLinks holds the sequence links parsed from a description.
// A nil field means the slot carried no link.
type NavLinks struct {
	Prev  *int `json:"prev"`
	First *int `json:"first"`
	Next  *int `json:"next"`
}

// OnlineCounts holds the user counters shown on the front page.
type OnlineCounts struct {
	Total      int `json:"total"`
	Guests     int `json:"guests"`
	Registered int `json:"registered"`
	Other      int `json:"other"`
}

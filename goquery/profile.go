package goquery

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Profile maps each logical field of a page onto a CSS locator.
// Site redesigns are handled by swapping profiles rather than editing
// extraction logic.
type Profile struct {
	// NotFoundTitle is the <title> text of the site's error page.
	NotFoundTitle string
	// ErrorNotice matches the notice box shown for missing or removed
	// submissions.
	ErrorNotice string

	Title  string
	Artist string
	// ArtistPathPrefix precedes the artist handle in the profile link.
	ArtistPathPrefix string

	// Image matches raster content; its src attribute holds the asset.
	Image string
	// Animation matches embedded objects; its data attribute holds the asset.
	Animation string

	PostedAt string
	// PostedAtAttr holds the full timestamp. The element text is used
	// when the attribute is absent.
	PostedAtAttr string

	Tags        string
	Description string
	Rating      string

	// LatestSubmission matches the newest submission link on the front page.
	LatestSubmission string
	// OnlineStats matches the front page online user counter text.
	OnlineStats string

	// NavLinks matches the sequence marker inside a description and
	// NavSeparator splits it into prev, first and next parts.
	NavLinks     string
	NavSeparator string
}

// DefaultProfile returns the profile for the current site layout.
func DefaultProfile() Profile {
	return Profile{
		NotFoundTitle:    "System Error",
		ErrorNotice:      ".error-message-box, div#standardpage section.notice-message p.link-override",
		Title:            ".submission-title h2 p",
		Artist:           ".submission-id-sub-container a[href*='/user/']",
		ArtistPathPrefix: "/user/",
		Image:            "#submissionImg",
		Animation:        "#flash_embed",
		PostedAt:         ".submission-id-sub-container strong span.popup_date",
		PostedAtAttr:     "title",
		Tags:             "section.tags-row a",
		Description:      ".submission-description",
		Rating:           ".stats-container .rating span.rating-box",
		LatestSubmission: "#gallery-frontpage-submissions figure:first-child b u a",
		OnlineStats:      ".online-stats",
		NavLinks:         "span.parsed_nav_links",
		NavSeparator:     "|",
	}
}

// Validate checks that every locator is present and compiles.
func (p Profile) Validate() error {
	selectors := []struct {
		name, value string
	}{
		{"error notice", p.ErrorNotice},
		{"title", p.Title},
		{"artist", p.Artist},
		{"image", p.Image},
		{"animation", p.Animation},
		{"posted at", p.PostedAt},
		{"tags", p.Tags},
		{"description", p.Description},
		{"rating", p.Rating},
		{"latest submission", p.LatestSubmission},
		{"online stats", p.OnlineStats},
		{"nav links", p.NavLinks},
	}
	for _, s := range selectors {
		if s.value == "" {
			return fmt.Errorf("profile %s selector required", s.name)
		}
		if _, err := cascadia.ParseGroup(s.value); err != nil {
			return fmt.Errorf("profile %s selector %q: %w", s.name, s.value, err)
		}
	}
	if p.NotFoundTitle == "" {
		return fmt.Errorf("profile not found title required")
	}
	if p.ArtistPathPrefix == "" {
		return fmt.Errorf("profile artist path prefix required")
	}
	if p.NavSeparator == "" {
		return fmt.Errorf("profile nav separator required")
	}
	return nil
}

// Package fasub extracts submission records from FurAffinity pages and
// computes content fingerprints for the media they reference.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, imghash/).
package fasub

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the site root used when no other base is configured.
const DefaultBaseURL = "https://www.furaffinity.net"

// FrontPageURL returns the URL of the site's front page.
func FrontPageURL(base string) string {
	return strings.TrimSuffix(base, "/") + "/"
}

// ViewURL returns the URL of the view page for a submission.
func ViewURL(base string, id int) string {
	return fmt.Sprintf("%s/view/%d/", strings.TrimSuffix(base, "/"), id)
}

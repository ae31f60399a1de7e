package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/fasub"
)

// resolveContent locates the image marker, falling back to the animation
// marker, and reads its asset reference. The image marker wins if both
// are present.
func (e *Extractor) resolveContent(doc *goquery.Document) (fasub.Content, error) {
	if sel := doc.FindMatcher(e.image).First(); sel.Length() > 0 {
		url, err := assetURL(sel, "image", "src")
		if err != nil {
			return fasub.Content{}, err
		}
		return fasub.NewImage(url), nil
	}

	if sel := doc.FindMatcher(e.animation).First(); sel.Length() > 0 {
		url, err := assetURL(sel, "animation", "data")
		if err != nil {
			return fasub.Content{}, err
		}
		return fasub.NewAnimation(url), nil
	}

	return fasub.Content{}, fasub.InvalidSubmissionTypeError()
}

// assetURL reads attr from sel and makes it absolute.
func assetURL(sel *goquery.Selection, field, attr string) (string, error) {
	ref, ok := sel.Attr(attr)
	ref = strings.TrimSpace(ref)
	if !ok || ref == "" {
		return "", fasub.MissingAttributeError(field, attr)
	}
	return fasub.ResolveContentURL(ref), nil
}

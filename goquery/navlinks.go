package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/fasub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var viewRe = regexp.MustCompile(`/view/(\d+)`)

// ExtractNavLinks parses the prev, first and next links from a description
// fragment. A slot rendered as plain text yields nil. A description without
// the marker yields empty NavLinks.
func (e *Extractor) ExtractNavLinks(description string) (*fasub.NavLinks, error) {
	doc, err := parseFragment(description)
	if err != nil {
		return nil, err
	}

	links := &fasub.NavLinks{}

	marker := doc.FindMatcher(e.navLinks).First()
	if marker.Length() == 0 {
		return links, nil
	}
	inner, err := marker.Html()
	if err != nil {
		return nil, fasub.Errorf(false, "unable to render nav links: %v", err)
	}

	parts := strings.Split(inner, e.profile.NavSeparator)
	slots := []**int{&links.Prev, &links.First, &links.Next}
	for i, slot := range slots {
		if i >= len(parts) {
			break
		}
		id, err := partLink(parts[i])
		if err != nil {
			return nil, err
		}
		*slot = id
	}
	return links, nil
}

// partLink returns the submission id linked from one nav part, or nil when
// the part has no matching anchor.
func partLink(part string) (*int, error) {
	doc, err := parseFragment(part)
	if err != nil {
		return nil, err
	}

	var id *int
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		m := viewRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return true
		}
		id = &n
		return false
	})
	return id, nil
}

// parseFragment parses markup in a <div> context and wraps the resulting
// nodes in a single root so they can be queried.
func parseFragment(markup string) (*goquery.Document, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), root)
	if err != nil {
		return nil, fasub.Errorf(false, "failed to parse HTML fragment: %v", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root), nil
}

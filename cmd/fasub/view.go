package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/crawl"
)

// Run executes the view command.
func (c *ViewCmd) Run(deps *Dependencies) error {
	sub, err := deps.Client.Submission(deps.Ctx, c.ID)
	if err != nil {
		return errorf(deps, err)
	}
	if sub == nil {
		fmt.Fprintf(deps.Stdout, "Submission %d does not exist.\n", c.ID)
		return nil
	}

	if c.Hash {
		sub, err = deps.Client.FingerprintSubmission(deps.Ctx, sub)
		if err != nil {
			return errorf(deps, err)
		}
	}

	description := sub.Description
	if c.Markdown && strings.TrimSpace(description) != "" {
		description, err = deps.Converter.Convert(description)
		if err != nil {
			return errorf(deps, err)
		}
	}

	links, err := deps.Client.NavLinks(sub)
	if err != nil {
		return errorf(deps, err)
	}

	if c.JSON {
		out := struct {
			*fasub.Submission
			Description string          `json:"description"`
			NavLinks    *fasub.NavLinks `json:"navLinks"`
		}{sub, description, links}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := deps.Stdout
	fmt.Fprintf(w, "%s by %s\n", sub.Title, sub.Artist)
	fmt.Fprintf(w, "  ID:      %d\n", sub.ID)
	fmt.Fprintf(w, "  Rating:  %s\n", sub.Rating)
	fmt.Fprintf(w, "  Posted:  %s\n", sub.PostedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Content: %s (%s)\n", sub.Content.URL, sub.Content.Kind)
	fmt.Fprintf(w, "  File:    %s\n", sub.Filename)
	if len(sub.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:    %s\n", strings.Join(sub.Tags, ", "))
	}
	if fp := sub.Fingerprint; fp != nil {
		fmt.Fprintf(w, "  PHash:   %s (%d, %s)\n", fp.PerceptualHash.Hex(), fp.PerceptualHashNumeric(), fp.PerceptualHash.Base64())
		fmt.Fprintf(w, "  SHA-256: %x\n", fp.ContentDigest)
		fmt.Fprintf(w, "  Size:    %s\n", crawl.FormatBytes(fp.ContentSize))
	}
	printNavLink(w, "Prev", links.Prev)
	printNavLink(w, "First", links.First)
	printNavLink(w, "Next", links.Next)
	if description != "" {
		fmt.Fprintf(w, "\n%s\n", description)
	}
	return nil
}

// Package fs exports submissions as Markdown files with YAML frontmatter.
package fs

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/fasub"
	"gopkg.in/yaml.v3"
)

// Exporter writes submissions to a directory with atomic update semantics.
// Files are written to a temporary directory and moved into place on Commit.
type Exporter struct {
	baseDir   string
	name      string
	converter fasub.Converter
}

// NewExporter creates a new Exporter. Files are saved to baseDir/name.tmp
// and moved to baseDir/name on Commit. If converter is nil, descriptions
// are written as HTML.
func NewExporter(baseDir, name string, converter fasub.Converter) *Exporter {
	return &Exporter{
		baseDir:   baseDir,
		name:      name,
		converter: converter,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Save writes one submission to the temporary directory.
func (e *Exporter) Save(ctx context.Context, sub *fasub.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := sub.Description
	if e.converter != nil && strings.TrimSpace(body) != "" {
		md, err := e.converter.Convert(body)
		if err != nil {
			return err
		}
		body = md
	}

	content, err := FormatSubmission(sub, body)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(e.tempDir(), SubmissionPath(sub))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the final directory with everything saved so far.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards everything saved so far.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// SubmissionPath returns the relative file path for a submission:
// one directory per artist, one file per submission id.
func SubmissionPath(sub *fasub.Submission) string {
	artist := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, sub.Artist)
	if artist == "" || artist == "." || artist == ".." {
		artist = "_"
	}
	return filepath.Join(artist, strconv.Itoa(sub.ID)+".md")
}

type frontmatter struct {
	ID       int      `yaml:"id"`
	Title    string   `yaml:"title"`
	Artist   string   `yaml:"artist"`
	Rating   string   `yaml:"rating"`
	Posted   string   `yaml:"posted"`
	Tags     []string `yaml:"tags,omitempty"`
	Kind     string   `yaml:"kind"`
	Content  string   `yaml:"content"`
	Filename string   `yaml:"filename"`
	PHash    string   `yaml:"phash,omitempty"`
	SHA256   string   `yaml:"sha256,omitempty"`
	Size     int      `yaml:"size,omitempty"`
}

// FormatSubmission formats a submission with YAML frontmatter followed by body.
func FormatSubmission(sub *fasub.Submission, body string) (string, error) {
	fm := frontmatter{
		ID:       sub.ID,
		Title:    sub.Title,
		Artist:   sub.Artist,
		Rating:   sub.Rating.String(),
		Posted:   sub.PostedAt.UTC().Format(time.RFC3339),
		Tags:     sub.Tags,
		Kind:     string(sub.Content.Kind),
		Content:  sub.Content.URL,
		Filename: sub.Filename,
	}
	if fp := sub.Fingerprint; fp != nil {
		fm.PHash = fp.PerceptualHash.Hex()
		fm.SHA256 = hex.EncodeToString(fp.ContentDigest[:])
		fm.Size = fp.ContentSize
	}

	out, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(out)
	b.WriteString("---\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

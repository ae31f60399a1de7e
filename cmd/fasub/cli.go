package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Client      *crawl.Client
	Converter   fasub.Converter
	Submissions fasub.SubmissionService
	Scans       fasub.ScanService
	Crawler     *crawl.Crawler
	Exporter    Exporter
}

// Exporter writes submissions to disk and publishes them on Commit.
type Exporter interface {
	Save(ctx context.Context, sub *fasub.Submission) error
	Commit() error
	Abort() error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	CookieA   string        `name:"cookie-a" env:"FA_COOKIE_A" help:"Value of the 'a' session cookie"`
	CookieB   string        `name:"cookie-b" env:"FA_COOKIE_B" help:"Value of the 'b' session cookie"`
	UserAgent string        `name:"user-agent" env:"FA_USER_AGENT" help:"User-Agent header sent with every request"`
	DB        string        `name:"db" env:"FASUB_DB" help:"SQLite database path"`
	RPS       float64       `name:"rps" env:"FASUB_RPS" default:"1" help:"Requests per second per host"`
	Burst     int           `name:"burst" env:"FASUB_BURST" default:"1" help:"Requests allowed at once per host"`
	BaseURL   string        `name:"base-url" env:"FASUB_BASE_URL" default:"https://www.furaffinity.net" help:"Site base URL"`
	Timeout   time.Duration `short:"t" default:"30s" help:"Timeout per request"`
	Verbose   bool          `short:"v" help:"Enable debug logging"`
	Browser   bool          `name:"browser" env:"FASUB_BROWSER" help:"Render pages in headless Chrome"`

	Latest  LatestCmd  `cmd:"" help:"Print the newest submission id"`
	View    ViewCmd    `cmd:"" help:"Show a single submission"`
	Online  OnlineCmd  `cmd:"" help:"Show the number of users online"`
	Scan    ScanCmd    `cmd:"" help:"Scan a range of submission ids into the database"`
	Similar SimilarCmd `cmd:"" help:"Find stored submissions that look like a stored one or a given hash"`
	Scans   ScansCmd   `cmd:"" help:"List previous scans"`
	Export  ExportCmd  `cmd:"" help:"Export stored submissions as Markdown files"`
}

// LatestCmd is the "latest" subcommand.
type LatestCmd struct{}

// ViewCmd is the "view" subcommand.
type ViewCmd struct {
	ID       int  `arg:"" help:"Submission id"`
	Markdown bool `short:"m" help:"Render the description as Markdown"`
	Hash     bool `help:"Download the image and print its fingerprint"`
	JSON     bool `name:"json" help:"Print the submission as JSON"`
}

// OnlineCmd is the "online" subcommand.
type OnlineCmd struct{}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	From        int  `required:"" help:"First submission id"`
	To          int  `help:"Last submission id (default: newest)"`
	Concurrency int  `short:"c" default:"4" help:"Concurrent submission limit"`
	NoHash      bool `name:"no-hash" help:"Skip downloading and fingerprinting images"`
}

// SimilarCmd is the "similar" subcommand.
type SimilarCmd struct {
	ID       int    `arg:"" optional:"" help:"Stored submission id"`
	Hash     string `help:"Base64 perceptual hash to search for instead of a stored submission"`
	Distance int    `short:"d" default:"8" help:"Maximum Hamming distance"`
}

// ScansCmd is the "scans" subcommand.
type ScansCmd struct {
	Limit int `short:"n" default:"10" help:"Number of scans to show (0 for all)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Path   string `arg:"" help:"Output directory (replaced on success)"`
	Artist string `help:"Only export this artist"`
	Tag    string `help:"Only export submissions with this tag"`
	Rating string `help:"Only export this rating (General, Mature, Adult)"`
	Raw    bool   `help:"Write descriptions as HTML instead of Markdown"`
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/crawl"
	"github.com/fwojciec/fasub/fs"
	"github.com/fwojciec/fasub/goquery"
	"github.com/fwojciec/fasub/htmltomarkdown"
	fasubhttp "github.com/fwojciec/fasub/http"
	"github.com/fwojciec/fasub/imghash"
	fasubrod "github.com/fwojciec/fasub/rod"
	fasubslog "github.com/fwojciec/fasub/slog"
	"github.com/fwojciec/fasub/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor FASUB_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fasub"),
		kong.Description("Read and archive submissions from an art gallery site"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'fasub --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	extractor, err := goquery.NewExtractor(goquery.DefaultProfile())
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	httpOpts := []fasubhttp.Option{
		fasubhttp.WithTimeout(cli.Timeout),
		fasubhttp.WithCookies(cli.CookieA, cli.CookieB),
	}
	if cli.UserAgent != "" {
		httpOpts = append(httpOpts, fasubhttp.WithUserAgent(cli.UserAgent))
	}
	var base fasub.Fetcher = fasubhttp.NewFetcher(httpOpts...)
	if cli.Browser {
		rodOpts := []fasubrod.Option{
			fasubrod.WithCookies(cli.BaseURL, cli.CookieA, cli.CookieB),
			fasubrod.WithBinaryFetcher(base),
		}
		if cli.UserAgent != "" {
			rodOpts = append(rodOpts, fasubrod.WithUserAgent(cli.UserAgent))
		}
		browser, err := fasubrod.NewFetcher(rodOpts...)
		if err != nil {
			_ = base.Close()
			fmt.Fprintf(stderr, "Hint: --browser requires Chrome or Chromium\n")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		base = browser
	}
	fetcher := fasubslog.NewLoggingFetcher(base, logger)
	defer fetcher.Close()

	deps.Client = &crawl.Client{
		BaseURL:       strings.TrimSuffix(cli.BaseURL, "/"),
		Fetcher:       fetcher,
		Extractor:     extractor,
		Fingerprinter: fasubslog.NewLoggingFingerprinter(imghash.NewHasher(), logger),
		RateLimiter:   crawl.NewDomainLimiterWithBurst(cli.RPS, cli.Burst),
		Logger:        logger,
	}
	deps.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(deps.Client.BaseURL))

	command := strings.Fields(kongCtx.Command())[0]
	if needsDB(command) {
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}

		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set FASUB_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		defer m.Close()

		deps.Submissions = sqlite.NewSubmissionService(m.DB)
		deps.Scans = sqlite.NewScanService(m.DB)
	}

	if command == "scan" {
		deps.Crawler = &crawl.Crawler{
			Client:      deps.Client,
			Submissions: deps.Submissions,
		}
	}

	if command == "export" {
		var conv fasub.Converter = deps.Converter
		if cli.Export.Raw {
			conv = nil
		}
		path := filepath.Clean(cli.Export.Path)
		deps.Exporter = fs.NewExporter(filepath.Dir(path), filepath.Base(path), conv)
	}

	return kongCtx.Run(deps)
}

func needsDB(command string) bool {
	switch command {
	case "scan", "similar", "scans", "export":
		return true
	}
	return false
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fasub.db"
	}
	dir := filepath.Join(home, ".fasub")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "fasub.db")
}

// errorf prints the user-facing message of err and returns err.
func errorf(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", fasub.ErrorMessage(err))
	return err
}

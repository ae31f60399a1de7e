package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fasub"
	main "github.com/fwojciec/fasub/cmd/fasub"
	"github.com/fwojciec/fasub/crawl"
	"github.com/fwojciec/fasub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"latest", "view", "online", "scan", "similar", "scans", "export"}

// testDeps returns dependencies writing to buffers, with a client backed by
// the given fetcher and extractor.
func testDeps(fetcher *mock.Fetcher, extractor *mock.Extractor) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Client: &crawl.Client{
			BaseURL:     "https://fa.test",
			Fetcher:     fetcher,
			Extractor:   extractor,
			RetryDelays: []time.Duration{},
		},
	}, stdout, stderr
}

func htmlFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchDocumentFn: func(_ context.Context, _ string) (string, error) {
			return "<html></html>", nil
		},
	}
}

func testSubmission(id int) *fasub.Submission {
	sub := fasub.NewSubmission(id, fasub.NewImage("https://d.furaffinity.net/art/artist/1/1.artist_sketch.png"))
	sub.Title = "Sketch"
	sub.Artist = "artist"
	sub.Rating = fasub.RatingGeneral
	sub.PostedAt = time.Date(2019, 4, 16, 16, 29, 0, 0, time.UTC)
	sub.Tags = []string{"fox", "bilberry"}
	sub.Description = "<p>A <strong>quick</strong> sketch.</p>"
	return sub
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_EnvFallbacks(t *testing.T) {
	t.Setenv("FA_COOKIE_A", "cookie-a")
	t.Setenv("FA_COOKIE_B", "cookie-b")
	t.Setenv("FA_USER_AGENT", "test-agent")
	t.Setenv("FASUB_DB", "/tmp/fasub-test.db")
	t.Setenv("FASUB_RPS", "2.5")
	t.Setenv("FASUB_BURST", "3")
	t.Setenv("FASUB_BROWSER", "true")
	t.Setenv("FASUB_BASE_URL", "https://fa.test")

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"latest"})
	require.NoError(t, err)

	assert.Equal(t, "cookie-a", cli.CookieA)
	assert.Equal(t, "cookie-b", cli.CookieB)
	assert.Equal(t, "test-agent", cli.UserAgent)
	assert.Equal(t, "/tmp/fasub-test.db", cli.DB)
	assert.InDelta(t, 2.5, cli.RPS, 0.0001)
	assert.Equal(t, 3, cli.Burst)
	assert.True(t, cli.Browser)
	assert.Equal(t, "https://fa.test", cli.BaseURL)
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "Flags:")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_ScansUsesDatabase(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"scans"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No scans recorded")
}

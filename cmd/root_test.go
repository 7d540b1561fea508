package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/scipunch/fbdaily/config"
	"github.com/scipunch/fbdaily/report"
	"github.com/scipunch/fbdaily/site"
)

var now = time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

func testOptions(t *testing.T) *rootOptions {
	t.Helper()
	return &rootOptions{
		now: func() time.Time { return now },
		newLogger: func(bool) (*zap.Logger, error) {
			return zaptest.NewLogger(t), nil
		},
	}
}

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Wire</title>
<item>
  <title>Brand appoints new creative director</title>
  <link>https://example.com/creative</link>
  <description>&lt;p&gt;A big move.&lt;/p&gt;</description>
  <pubDate>%s</pubDate>
</item>
<item>
  <title>Old news</title>
  <link>https://example.com/old</link>
  <pubDate>%s</pubDate>
</item>
</channel></rss>`, now.Add(-time.Hour).Format(time.RFC1123Z), now.Add(-100*time.Hour).Format(time.RFC1123Z))
	}))
	t.Cleanup(server.Close)
	return server
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, opts *rootOptions, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd := newRootCmd(opts)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRun_WritesDigestAndSite(t *testing.T) {
	server := newFeedServer(t)
	cfgPath := writeConfig(t, fmt.Sprintf("sources:\n  - type: rss\n    name: Wire\n    url: %s\n", server.URL))
	outDir := filepath.Join(t.TempDir(), "data")
	siteDir := filepath.Join(t.TempDir(), "site")

	_, err := execute(t, testOptions(t),
		"--config", cfgPath,
		"--output", outDir,
		"--site-dir", siteDir,
		"--title", "Morning Edition",
	)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	digest, err := os.ReadFile(filepath.Join(outDir, report.DigestFilename(now)))
	if err != nil {
		t.Fatalf("digest not written: %v", err)
	}
	for _, want := range []string{
		"## Creative Director Moves",
		"- [Brand appoints new creative director](https://example.com/creative) — Wire (2025-10-25 11:00 UTC)",
		"    A big move.",
	} {
		if !strings.Contains(string(digest), want) {
			t.Errorf("digest missing %q:\n%s", want, digest)
		}
	}
	if strings.Contains(string(digest), "Old news") {
		t.Errorf("stale article made it into the digest:\n%s", digest)
	}

	index, err := os.ReadFile(filepath.Join(siteDir, site.IndexFile))
	if err != nil {
		t.Fatalf("index.html not written: %v", err)
	}
	if !strings.Contains(string(index), "<h1>Morning Edition</h1>") {
		t.Errorf("index.html missing title:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(siteDir, site.StylesheetFile)); err != nil {
		t.Errorf("styles.css not written: %v", err)
	}
}

func TestRun_FailingSourceStillWritesDigest(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer down.Close()
	cfgPath := writeConfig(t, fmt.Sprintf("sources:\n  - name: Down\n    url: %s\n", down.URL))
	outDir := t.TempDir()

	if _, err := execute(t, testOptions(t), "--config", cfgPath, "--output", outDir); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	digest, err := os.ReadFile(filepath.Join(outDir, report.DigestFilename(now)))
	if err != nil {
		t.Fatalf("digest not written: %v", err)
	}
	want := "# Fashion Business Daily\n\n_Last updated: 2025-10-25 12:00 UTC_\n"
	if string(digest) != want {
		t.Errorf("digest = %q, want %q", digest, want)
	}
}

func TestRun_NoMarkdown(t *testing.T) {
	server := newFeedServer(t)
	cfgPath := writeConfig(t, fmt.Sprintf("sources:\n  - name: Wire\n    url: %s\n", server.URL))
	outDir := filepath.Join(t.TempDir(), "data")

	if _, err := execute(t, testOptions(t), "--config", cfgPath, "--output", outDir, "--no-markdown"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(outDir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("output directory should not exist, stat error: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name:    "pdf without site",
			args:    []string{"--pdf"},
			wantErr: "--pdf requires --site-dir",
		},
		{
			name:    "unsupported source type",
			config:  "sources:\n  - type: telegram\n    name: Channel\n",
			wantErr: "unsupported source type",
		},
		{
			name:    "rss without url",
			config:  "sources:\n  - name: Broken\n",
			wantErr: "url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--output", t.TempDir()}, tt.args...)
			if tt.config != "" {
				args = append(args, "--config", writeConfig(t, tt.config))
			}

			_, err := execute(t, testOptions(t), args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRun_UnsupportedSourceIsSentinel(t *testing.T) {
	cfgPath := writeConfig(t, "sources:\n  - type: telegram\n    name: Channel\n")

	_, err := execute(t, testOptions(t), "--config", cfgPath, "--output", t.TempDir())
	if !errors.Is(err, config.ErrUnsupportedSource) {
		t.Errorf("expected ErrUnsupportedSource, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2025-10-25")
	defer SetVersionInfo("dev", "none", "unknown")

	out, err := execute(t, testOptions(t), "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "fbdaily 1.2.3 (commit: abc123, built: 2025-10-25)\n" {
		t.Errorf("output = %q", out)
	}
}

func TestSourcesCmd(t *testing.T) {
	cfgPath := writeConfig(t, `sources:
  - name: Wire
    url: https://example.com/feed
  - type: nyt_topstories
    name: NYT
categories:
  - name: Runway
    keywords: [runway, collection]
`)

	out, err := execute(t, testOptions(t), "sources", "--config", cfgPath)
	if err != nil {
		t.Fatalf("sources failed: %v", err)
	}
	want := `Sources:
  Wire [rss] https://example.com/feed
  NYT [nyt_topstories] section fashion
Categories:
  Runway (2 keywords)
`
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestSourcesCmd_Defaults(t *testing.T) {
	out, err := execute(t, testOptions(t), "sources", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("sources failed: %v", err)
	}
	for _, s := range config.DefaultSources() {
		if !strings.Contains(out, s.Name) {
			t.Errorf("output missing default source %q:\n%s", s.Name, out)
		}
	}
}

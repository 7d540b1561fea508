package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scipunch/fbdaily/article"
)

const (
	// DefaultTitle heads both the digest and the site
	DefaultTitle = "Fashion Business Daily"
	// GeneralLabel groups articles without any category
	GeneralLabel = "General"

	timestampLayout = "2006-01-02 15:04 MST"
)

// Group is a set of articles sharing the same category combination
type Group struct {
	Label    string
	Articles []article.Article
}

// Label returns the grouping key of an article: its categories joined by
// ", ", or GeneralLabel when it has none
func Label(a article.Article) string {
	if len(a.Categories) == 0 {
		return GeneralLabel
	}
	return strings.Join(a.Categories, ", ")
}

// GroupByCategory buckets articles by Label. Groups are sorted by label and
// keep the input order of their articles.
func GroupByCategory(articles []article.Article) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, a := range articles {
		label := Label(a)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Articles = append(groups[i].Articles, a)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// FormatTimestamp renders a publish time in UTC, or "Unknown"
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return "Unknown"
	}
	return t.UTC().Format(timestampLayout)
}

// BuildMarkdownDigest renders articles as a markdown document with one
// section per category combination
func BuildMarkdownDigest(articles []article.Article, now time.Time) string {
	lines := []string{"# " + DefaultTitle, ""}
	lines = append(lines, fmt.Sprintf("_Last updated: %s_", now.UTC().Format(timestampLayout)))
	lines = append(lines, "")

	for _, group := range GroupByCategory(articles) {
		lines = append(lines, "## "+group.Label, "")
		for _, a := range group.Articles {
			lines = append(lines, fmt.Sprintf("- [%s](%s) — %s (%s)\n    %s",
				a.Title, a.URL, a.Source, FormatTimestamp(a.Published), strings.TrimSpace(a.Summary)))
		}
		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// DigestFilename returns the dated file name for a digest written at now
func DigestFilename(now time.Time) string {
	return fmt.Sprintf("daily_digest_%s.md", now.UTC().Format("2006_01_02"))
}

// WriteDigest writes markdown to a dated file inside dir, creating dir if
// needed, and returns the file path
func WriteDigest(markdown, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, DigestFilename(now))
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write digest at '%s': %w", path, err)
	}
	return path, nil
}

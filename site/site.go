package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scipunch/fbdaily/article"
	"github.com/scipunch/fbdaily/report"
)

//go:embed templates/index.html templates/styles.css
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const (
	IndexFile      = "index.html"
	StylesheetFile = "styles.css"
)

// defaultSourceList credits the built-in sources when no article names any
const defaultSourceList = "Business of Fashion, WWD, Vanity Fair, Vogue Business, and The New York Times"

// Assets maps a file name to its content
type Assets map[string]string

type page struct {
	Title      string
	Updated    string
	Sections   []section
	SourceList string
}

type section struct {
	ID      string
	Label   string
	Stories []story
}

type story struct {
	Title     string
	URL       string
	Source    string
	Published string
	Summary   string
}

// SectionID turns a group label into an HTML id
func SectionID(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}

// Build renders the static site for articles. Every piece of article text is
// escaped by html/template.
func Build(articles []article.Article, title string, now time.Time) (Assets, error) {
	if title == "" {
		title = report.DefaultTitle
	}

	p := page{
		Title:      title,
		Updated:    now.UTC().Format("2006-01-02 15:04 MST"),
		SourceList: sourceList(articles),
	}
	for _, group := range report.GroupByCategory(articles) {
		s := section{ID: SectionID(group.Label), Label: group.Label}
		for _, a := range group.Articles {
			s.Stories = append(s.Stories, story{
				Title:     a.Title,
				URL:       a.URL,
				Source:    a.Source,
				Published: report.FormatTimestamp(a.Published),
				Summary:   strings.TrimSpace(a.Summary),
			})
		}
		p.Sections = append(p.Sections, s)
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("could not render %s: %w", IndexFile, err)
	}
	css, err := templatesFS.ReadFile("templates/" + StylesheetFile)
	if err != nil {
		return nil, fmt.Errorf("could not read embedded %s: %w", StylesheetFile, err)
	}

	return Assets{
		IndexFile:      buf.String(),
		StylesheetFile: string(css),
	}, nil
}

// Write stores every asset inside dir, creating it if needed, and returns dir
func Write(assets Assets, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create site directory '%s': %w", dir, err)
	}

	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(assets[name]), 0644); err != nil {
			return "", fmt.Errorf("failed to write '%s': %w", path, err)
		}
	}
	return dir, nil
}

// sourceList names the distinct article sources in alphabetical order
func sourceList(articles []article.Article) string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range articles {
		if a.Source == "" || seen[a.Source] {
			continue
		}
		seen[a.Source] = true
		names = append(names, a.Source)
	}
	sort.Strings(names)

	switch len(names) {
	case 0:
		return defaultSourceList
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

package article

import (
	"strings"
	"time"
)

// RecencyWindow is how far back an article may be published and still
// count as recent.
const RecencyWindow = 72 * time.Hour

// Category is a named set of keywords used to tag articles
type Category struct {
	Name     string   `yaml:"name" toml:"name"`
	Keywords []string `yaml:"keywords" toml:"keywords"`
}

// Match returns true if any keyword appears in text, ignoring case.
// Keywords are matched as plain substrings, not whole words.
func (c Category) Match(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range c.Keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// Article represents a single news story pulled from a source
type Article struct {
	Source     string
	Title      string
	URL        string
	Summary    string
	Published  *time.Time // nil when the upstream date is missing or malformed
	Categories []string
}

// AssignCategories replaces the article categories with the names of every
// category matching its title and summary, in the given order.
func (a *Article) AssignCategories(categories []Category) {
	text := strings.ToLower(a.Title + "\n" + a.Summary)
	matched := make([]string, 0, len(categories))
	for _, category := range categories {
		if category.Match(text) {
			matched = append(matched, category.Name)
		}
	}
	a.Categories = matched
}

// IsRecent reports whether the article falls inside RecencyWindow.
func (a Article) IsRecent(now time.Time) bool {
	return a.PublishedWithin(now, RecencyWindow)
}

// PublishedWithin reports whether the article was published no more than
// window before now. Undated articles always qualify.
func (a Article) PublishedWithin(now time.Time, window time.Duration) bool {
	if a.Published == nil {
		return true
	}
	return now.Sub(*a.Published) <= window
}

// PublishedOr returns the publish time, or fallback for undated articles.
func (a Article) PublishedOr(fallback time.Time) time.Time {
	if a.Published == nil {
		return fallback
	}
	return *a.Published
}

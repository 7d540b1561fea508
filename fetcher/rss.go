package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"

	"github.com/scipunch/fbdaily/article"
)

// FeedSource fetches articles from an RSS or Atom feed using gofeed
type FeedSource struct {
	name   string
	url    string
	parser *gofeed.Parser
}

// NewFeedSource creates a new RSS/Atom source
func NewFeedSource(name, url string, opts ...Option) *FeedSource {
	o := newOptions(opts)

	parser := gofeed.NewParser()
	parser.Client = o.client
	parser.UserAgent = UserAgent
	parser.AtomTranslator = &atomTranslator{}

	return &FeedSource{
		name:   name,
		url:    url,
		parser: parser,
	}
}

func (s *FeedSource) Name() string {
	return s.name
}

// URL returns the feed address
func (s *FeedSource) URL() string {
	return s.url
}

// Fetch retrieves the feed and converts up to limit entries into articles
func (s *FeedSource) Fetch(ctx context.Context, limit int) ([]article.Article, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &HTTPStatusError{URL: s.url, StatusCode: httpErr.StatusCode, Status: httpErr.Status}
		}
		return nil, fmt.Errorf("failed to parse feed %s: %w", s.url, err)
	}

	isAtom := feed.FeedType == "atom"
	items := truncate(feed.Items, limit)
	articles := make([]article.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, s.toArticle(item, isAtom))
	}
	return articles, nil
}

func (s *FeedSource) toArticle(item *gofeed.Item, isAtom bool) article.Article {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	// Atom prefers the last modification, RSS the publication date
	published := firstTimestamp(item.Published, item.Updated)
	if isAtom {
		published = firstTimestamp(item.Updated, item.Published)
	}

	return article.Article{
		Source:    s.name,
		Title:     title,
		URL:       strings.TrimSpace(item.Link),
		Summary:   StripHTML(summary),
		Published: published,
	}
}

// atomTranslator picks the rel="alternate" link of each entry, falling back
// to the first link of any kind. gofeed's default also accepts rel="self".
type atomTranslator struct {
	gofeed.DefaultAtomTranslator
}

func (t *atomTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	result, err := t.DefaultAtomTranslator.Translate(feed)
	if err != nil {
		return nil, err
	}
	af, ok := feed.(*atom.Feed)
	if !ok || len(af.Entries) != len(result.Items) {
		return result, nil
	}
	for i, entry := range af.Entries {
		result.Items[i].Link = entryLink(entry.Links)
	}
	return result, nil
}

func entryLink(links []*atom.Link) string {
	for _, l := range links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Href != "" {
			return l.Href
		}
	}
	return ""
}

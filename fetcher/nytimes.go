package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/scipunch/fbdaily/article"
	"github.com/scipunch/fbdaily/config"
)

const nytBaseURL = "https://api.nytimes.com"

// TopStoriesSource fetches a section of the New York Times Top Stories API
type TopStoriesSource struct {
	name      string
	section   string
	baseURL   string
	client    *http.Client
	lookupKey func() string
}

type topStoriesResponse struct {
	Results []topStory `json:"results"`
}

type topStory struct {
	Title         *string `json:"title"`
	URL           string  `json:"url"`
	Abstract      string  `json:"abstract"`
	PublishedDate string  `json:"published_date"`
}

// NewTopStoriesSource creates a Top Stories source. The API key is read from
// NYTIMES_API_KEY on every fetch unless WithAPIKey says otherwise.
func NewTopStoriesSource(name, section string, opts ...Option) *TopStoriesSource {
	o := newOptions(opts)
	if section == "" {
		section = config.DefaultSection
	}
	if o.baseURL == "" {
		o.baseURL = nytBaseURL
	}
	if o.lookupKey == nil {
		o.lookupKey = config.NYTimesAPIKey
	}
	return &TopStoriesSource{
		name:      name,
		section:   section,
		baseURL:   strings.TrimRight(o.baseURL, "/"),
		client:    o.client,
		lookupKey: o.lookupKey,
	}
}

func (s *TopStoriesSource) Name() string {
	return s.name
}

// Section returns the Top Stories section this source reads
func (s *TopStoriesSource) Section() string {
	return s.section
}

// Fetch queries the API and converts up to limit results into articles
func (s *TopStoriesSource) Fetch(ctx context.Context, limit int) ([]article.Article, error) {
	apiKey := s.lookupKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s environment variable is required for New York Times access", ErrMissingAPIKey, config.NYTimesAPIKeyEnv)
	}

	endpoint := fmt.Sprintf("%s/svc/topstories/v2/%s.json", s.baseURL, url.PathEscape(s.section))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?api-key="+url.QueryEscape(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		// The request URL carries the key, keep it out of the error
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var payload topStoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	results := truncate(payload.Results, limit)
	articles := make([]article.Article, 0, len(results))
	for _, story := range results {
		title := "Untitled"
		if story.Title != nil {
			title = *story.Title
		}
		articles = append(articles, article.Article{
			Source:    s.name,
			Title:     title,
			URL:       story.URL,
			Summary:   story.Abstract,
			Published: ParseTimestamp(story.PublishedDate),
		})
	}
	return articles, nil
}

func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}

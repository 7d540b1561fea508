package fetcher

import (
	"fmt"

	"github.com/scipunch/fbdaily/config"
)

// New creates the source described by a config entry
func New(src config.Source, opts ...Option) (Source, error) {
	switch src.Type() {
	case config.RSS:
		if src.URL == "" {
			return nil, fmt.Errorf("source %q: url is required", src.Name)
		}
		return NewFeedSource(src.Name, src.URL, opts...), nil
	case config.NYTTopStories:
		return NewTopStoriesSource(src.Name, src.Section, opts...), nil
	default:
		return nil, fmt.Errorf("source %q: %w: %s", src.Name, config.ErrUnsupportedSource, src.T)
	}
}

// FromConfig creates a source for every config entry, failing on the first
// one that cannot be built
func FromConfig(sources []config.Source, opts ...Option) ([]Source, error) {
	result := make([]Source, 0, len(sources))
	for _, src := range sources {
		s, err := New(src, opts...)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/scipunch/fbdaily/article"
)

type SourceType = string

var (
	RSS           = SourceType("rss")
	NYTTopStories = SourceType("nyt_topstories")
)

// DefaultSection is the Top Stories section used when none is configured
const DefaultSection = "fashion"

const defaultCfgPath = "config/sources.yaml"

// ErrUnsupportedSource is returned for a source type no fetcher handles
var ErrUnsupportedSource = errors.New("unsupported source type")

type Config struct {
	Sources    []Source           `yaml:"sources" toml:"sources"`
	Categories []article.Category `yaml:"categories" toml:"categories"` // Replaces the defaults when non-empty
	Filters    Filter             `yaml:"filters" toml:"filters"`
}

type Source struct {
	T       SourceType `yaml:"type" toml:"type"` // Defaults to rss
	Name    string     `yaml:"name" toml:"name"`
	URL     string     `yaml:"url" toml:"url"`
	Section string     `yaml:"section" toml:"section"` // nyt_topstories only
}

// Type returns the source type, treating an empty value as rss
func (s Source) Type() SourceType {
	if s.T == "" {
		return RSS
	}
	return s.T
}

// Filter defines which fetched articles make it into the digest
type Filter struct {
	MaxAge          string   `yaml:"max_age" toml:"max_age"`                   // Go duration, defaults to 72h
	MinWords        int      `yaml:"min_words" toml:"min_words"`               // Minimum word count (0 = no limit)
	ExcludePatterns []string `yaml:"exclude_patterns" toml:"exclude_patterns"` // Regex patterns to exclude
}

// Window returns the recency window, falling back to article.RecencyWindow
func (f Filter) Window() (time.Duration, error) {
	if f.MaxAge == "" {
		return article.RecencyWindow, nil
	}
	d, err := time.ParseDuration(f.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid max_age %q: %w", f.MaxAge, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("max_age must be positive, got %q", f.MaxAge)
	}
	return d, nil
}

// Read decodes the config at path. On error the defaults are returned
// alongside it, so a missing file can be detected with os.ErrNotExist.
func Read(path string) (Config, error) {
	conf := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}

	var fileConf Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(dat), &fileConf)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(dat, &fileConf)
	default:
		return conf, fmt.Errorf("unknown config format for %s (expected .yaml, .yml or .toml)", path)
	}
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", path, err)
	}

	if len(fileConf.Categories) == 0 {
		fileConf.Categories = conf.Categories
	}
	if err := validate(fileConf); err != nil {
		return conf, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return fileConf, nil
}

// Load reads the config at path, using the defaults when the file is absent
func Load(path string) (Config, error) {
	conf, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return conf, err
}

func validate(conf Config) error {
	for i, s := range conf.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		switch s.Type() {
		case RSS:
			if s.URL == "" {
				return fmt.Errorf("source %q: url is required", s.Name)
			}
		case NYTTopStories:
		default:
			return fmt.Errorf("source %q: %w: %s", s.Name, ErrUnsupportedSource, s.T)
		}
	}
	for i, c := range conf.Categories {
		if c.Name == "" {
			return fmt.Errorf("category %d: name is required", i)
		}
	}
	if _, err := conf.Filters.Window(); err != nil {
		return fmt.Errorf("filters: %w", err)
	}
	return nil
}

func Default() Config {
	return Config{
		Sources:    DefaultSources(),
		Categories: DefaultCategories(),
	}
}

func DefaultPath() string {
	return defaultCfgPath
}

// DefaultSources returns a fresh copy of the built-in source list
func DefaultSources() []Source {
	return []Source{
		{T: RSS, Name: "Business of Fashion", URL: "https://www.businessoffashion.com/rss"},
		{T: RSS, Name: "WWD", URL: "https://wwd.com/feed/"},
		{T: RSS, Name: "Vanity Fair Fashion", URL: "https://www.vanityfair.com/feed/rss/fashion"},
		{T: RSS, Name: "Vogue Business", URL: "https://www.voguebusiness.com/rss"},
		{T: NYTTopStories, Name: "New York Times Fashion", Section: DefaultSection},
	}
}

// DefaultCategories returns a fresh copy of the built-in categories
func DefaultCategories() []article.Category {
	return []article.Category{
		{
			Name: "Creative Director Moves",
			Keywords: []string{
				"creative director",
				"artistic director",
				"creative lead",
				"chief creative officer",
				"design director",
			},
		},
		{
			Name: "Executive & Leadership",
			Keywords: []string{
				"chief executive",
				"ceo",
				"president",
				"chairman",
				"board appoints",
				"leadership",
			},
		},
		{
			Name: "Acquisitions & Investments",
			Keywords: []string{
				"acquires",
				"acquisition",
				"merger",
				"invests",
				"raises",
				"funding",
				"private equity",
			},
		},
		{
			Name: "Marketing & Campaigns",
			Keywords: []string{
				"marketing",
				"campaign",
				"ambassador",
				"brand campaign",
				"ad campaign",
				"collaboration",
				"capsule collection",
			},
		},
		{
			Name: "Sustainability & Responsibility",
			Keywords: []string{
				"sustainable",
				"sustainability",
				"esg",
				"responsibility",
				"climate",
				"carbon",
				"environmental",
			},
		},
	}
}

package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/scipunch/fbdaily/article"
	"github.com/scipunch/fbdaily/config"
)

// Pipeline decides which fetched articles are kept
type Pipeline struct {
	window          time.Duration
	minWords        int
	excludePatterns []*regexp.Regexp
	rawPatterns     []string
}

// Default keeps every article published within article.RecencyWindow
func Default() *Pipeline {
	return &Pipeline{window: article.RecencyWindow}
}

// NewPipeline creates a pipeline from config. Invalid exclude patterns are
// logged and skipped.
func NewPipeline(cfg config.Filter, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		window:          window,
		minWords:        cfg.MinWords,
		excludePatterns: make([]*regexp.Regexp, 0, len(cfg.ExcludePatterns)),
		rawPatterns:     make([]string, 0, len(cfg.ExcludePatterns)),
	}
	for _, pattern := range cfg.ExcludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			logger.Warn("invalid exclude pattern, skipping", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		p.excludePatterns = append(p.excludePatterns, re)
		p.rawPatterns = append(p.rawPatterns, pattern)
	}
	return p, nil
}

// Window returns the recency window in use
func (p *Pipeline) Window() time.Duration {
	return p.window
}

// ShouldInclude returns true if the article passes every rule, or false and
// the name of the rule that rejected it
func (p *Pipeline) ShouldInclude(a article.Article, now time.Time) (bool, string) {
	// 1. Recency
	if !a.PublishedWithin(now, p.window) {
		return false, "max_age"
	}

	text := a.Title + " " + a.Summary

	// 2. Minimum word count
	if p.minWords > 0 && countWords(text) < p.minWords {
		return false, "min_words"
	}

	// 3. Exclude patterns
	for i, pattern := range p.excludePatterns {
		if pattern.MatchString(text) {
			return false, "exclude_pattern[" + p.rawPatterns[i] + "]"
		}
	}

	return true, ""
}

// countWords counts runs of letters and digits
func countWords(text string) int {
	words := 0
	inWord := false

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}

	return words
}

// String describes the pipeline for logs
func (p *Pipeline) String() string {
	var b strings.Builder
	b.WriteString("max_age=" + p.window.String())
	if p.minWords > 0 {
		b.WriteString(" min_words=" + strconv.Itoa(p.minWords))
	}
	if len(p.rawPatterns) > 0 {
		b.WriteString(" exclude=[" + strings.Join(p.rawPatterns, ", ") + "]")
	}
	return b.String()
}

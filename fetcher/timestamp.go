package fetcher

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes anything that looks like a tag. It is not a sanitizer:
// entities are left alone and malformed markup passes through.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}

// ParseTimestamp parses an RFC 2822 date, falling back to ISO 8601.
// Timestamps without a zone are taken as UTC. The result is always in UTC,
// and nil when value is empty or cannot be parsed.
func ParseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if t, err := mail.ParseDate(value); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := dateparse.ParseIn(value, time.UTC); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}

// firstTimestamp returns the first value that parses
func firstTimestamp(values ...string) *time.Time {
	for _, v := range values {
		if t := ParseTimestamp(v); t != nil {
			return t
		}
	}
	return nil
}

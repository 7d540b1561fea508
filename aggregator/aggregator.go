package aggregator

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/scipunch/fbdaily/article"
	"github.com/scipunch/fbdaily/fetcher"
	"github.com/scipunch/fbdaily/filter"
)

// DefaultMaxItems caps how many articles are requested from each source
const DefaultMaxItems = 25

// Aggregator fetches from every source in turn and merges the results
type Aggregator struct {
	sources    []fetcher.Source
	categories []article.Category
	maxItems   int
	filter     *filter.Pipeline
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Aggregator)

func WithMaxItems(n int) Option {
	return func(a *Aggregator) {
		a.maxItems = n
	}
}

func WithFilter(p *filter.Pipeline) Option {
	return func(a *Aggregator) {
		if p != nil {
			a.filter = p
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock sets the time source used for recency and sorting
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func New(sources []fetcher.Source, categories []article.Category, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources:    append([]fetcher.Source(nil), sources...),
		categories: append([]article.Category(nil), categories...),
		maxItems:   DefaultMaxItems,
		filter:     filter.Default(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch pulls articles from all sources, tags them with categories, drops
// the ones the filter rejects and returns the rest newest first. A failing
// source is logged and contributes nothing.
func (a *Aggregator) Fetch(ctx context.Context) []article.Article {
	var all []article.Article
	now := a.now().UTC()

	for _, src := range a.sources {
		log := a.logger.With(zap.String("source", src.Name()))

		articles, err := src.Fetch(ctx, a.maxItems)
		if err != nil {
			log.Error("failed to fetch source", zap.Error(err))
			continue
		}

		kept := 0
		for _, item := range articles {
			item.AssignCategories(a.categories)
			if ok, reason := a.filter.ShouldInclude(item, now); !ok {
				log.Debug("article filtered out", zap.String("title", item.Title), zap.String("reason", reason), zap.String("url", item.URL))
				continue
			}
			all = append(all, item)
			kept++
		}
		log.Debug("source fetched", zap.Int("fetched", len(articles)), zap.Int("kept", kept))
	}

	SortNewestFirst(all, now)
	a.logger.Info("articles aggregated", zap.Int("total", len(all)), zap.Int("sources", len(a.sources)))
	return all
}

// SortNewestFirst orders articles by publish time, newest first. Undated
// articles are treated as published at now. Ties keep their order.
func SortNewestFirst(articles []article.Article, now time.Time) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedOr(now).After(articles[j].PublishedOr(now))
	})
}

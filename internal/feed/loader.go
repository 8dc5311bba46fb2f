package feed

import (
	"context"

	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// SnapshotCache keeps the last good content set.
type SnapshotCache interface {
	Save(ctx context.Context, set content.Set) error
	Load(ctx context.Context) (content.Set, bool, error)
}

// Origin tells where loaded content came from.
type Origin string

// Content origins.
const (
	OriginSource Origin = "source"
	OriginCache  Origin = "cache"
	OriginEmpty  Origin = "empty"
)

// Result is the outcome of a Load.
type Result struct {
	Set      content.Set
	Origin   Origin
	Rejected int // records dropped by validation
}

// Loader fetches and validates the feed. It never fails: transport errors
// fall back to the cached snapshot, then to an empty set.
type Loader struct {
	src    Source
	cache  SnapshotCache
	logger *zap.Logger
}

// NewLoader creates a loader. cache may be nil.
func NewLoader(src Source, cache SnapshotCache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, cache: cache, logger: logger}
}

// Load fetches the feed once.
func (l *Loader) Load(ctx context.Context) Result {
	records, err := l.src.Fetch(ctx)
	if err != nil {
		metrics.FeedFetchErrorsTotal.Inc()
		l.logger.Warn("content feed unavailable, falling back", zap.Error(err))
		return l.fallback(ctx)
	}

	set, problems := Validate(records)
	for _, p := range problems {
		l.logger.Debug("feed record rejected", zap.Error(p))
	}
	if len(problems) > 0 {
		l.logger.Warn("feed records rejected",
			zap.Int("rejected", len(problems)), zap.Int("accepted", len(set.Articles)))
	}

	if l.cache != nil {
		if err := l.cache.Save(ctx, set); err != nil {
			l.logger.Warn("save feed snapshot", zap.Error(err))
		}
	}

	l.logger.Info("content feed loaded",
		zap.Int("articles", len(set.Articles)),
		zap.Int("authors", len(set.Authors)),
		zap.Int("tags", len(set.Tags)),
	)
	return Result{Set: set, Origin: OriginSource, Rejected: len(problems)}
}

func (l *Loader) fallback(ctx context.Context) Result {
	if l.cache != nil {
		set, ok, err := l.cache.Load(ctx)
		switch {
		case err != nil:
			l.logger.Warn("load feed snapshot", zap.Error(err))
		case ok:
			l.logger.Info("serving cached feed snapshot", zap.Int("articles", len(set.Articles)))
			return Result{Set: set, Origin: OriginCache}
		}
	}
	return Result{Set: content.Set{}, Origin: OriginEmpty}
}

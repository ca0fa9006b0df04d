package reportcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "transittracker:reports:route:"

type ReportSource interface {
	ReportsForRoute(ctx context.Context, line string) ([]tracker.Report, error)
}

// Fetcher sits in front of a ReportSource and shares its answers between view
// sessions: concurrent lookups for the same line collapse into one upstream call,
// and with redis available the answer is kept for the configured expiration.
type Fetcher struct {
	Source ReportSource

	cache *cache.Cache[string]
	group singleflight.Group
}

// New builds a Fetcher. A nil redis client disables the shared cache.
func New(source ReportSource, redisClient *redis.Client, expiration time.Duration) *Fetcher {
	fetcher := &Fetcher{
		Source: source,
	}

	if redisClient != nil {
		redisStore := redisstore.NewRedis(redisClient, store.WithExpiration(expiration))
		fetcher.cache = cache.New[string](redisStore)
	}

	return fetcher
}

func (f *Fetcher) ReportsForRoute(ctx context.Context, line string) ([]tracker.Report, error) {
	if reports, ok := f.cached(ctx, line); ok {
		return reports, nil
	}

	// The shared lookup outlives any single caller; each caller only stops waiting
	// when its own context ends.
	sharedCtx := context.WithoutCancel(ctx)

	resultChan := f.group.DoChan(line, func() (any, error) {
		reports, err := f.Source.ReportsForRoute(sharedCtx, line)
		if err != nil {
			return nil, err
		}

		f.store(sharedCtx, line, reports)

		return reports, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.Err != nil {
			return nil, result.Err
		}

		log.Debug().Str("line", line).Bool("shared", result.Shared).Msg("Fetched line reports")

		return slices.Clone(result.Val.([]tracker.Report)), nil
	}
}

func (f *Fetcher) cached(ctx context.Context, line string) ([]tracker.Report, bool) {
	if f.cache == nil {
		return nil, false
	}

	encoded, err := f.cache.Get(ctx, keyPrefix+line)
	if err != nil || encoded == "" {
		return nil, false
	}

	var reports []tracker.Report
	if err := json.Unmarshal([]byte(encoded), &reports); err != nil {
		log.Warn().Err(err).Str("line", line).Msg("Discarding unreadable cached reports")
		return nil, false
	}

	return reports, true
}

func (f *Fetcher) store(ctx context.Context, line string, reports []tracker.Report) {
	if f.cache == nil {
		return
	}

	encoded, err := json.Marshal(reports)
	if err != nil {
		log.Error().Err(err).Str("line", line).Msg("Encoding reports for cache")
		return
	}

	if err := f.cache.Set(ctx, keyPrefix+line, string(encoded)); err != nil {
		log.Warn().Err(fmt.Errorf("caching reports: %w", err)).Str("line", line).Send()
	}
}

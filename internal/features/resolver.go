package features

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
)

const (
	resolverMaxRetries  = 3
	resolverBackoffBase = 2 * time.Second
)

// ContextCache memoizes resolved opponent contexts for the duration of one
// batch operation. It is created per run and passed in by the caller, never
// shared across independent pipeline runs. Keys ignore the window: within a
// batch, the first resolved window for an (opponent, season) pair is reused.
//
// A per-key mutex makes concurrent requests for the same pair perform
// exactly one upstream fetch.
type ContextCache struct {
	store *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewContextCache creates an empty run-scoped cache.
func NewContextCache() *ContextCache {
	return &ContextCache{
		store: cache.New(cache.NoExpiration, cache.NoExpiration),
		locks: make(map[string]*sync.Mutex),
	}
}

func contextKey(opponent string, seasonID int) string {
	return fmt.Sprintf("%s:%d", opponent, seasonID)
}

func (c *ContextCache) get(key string) (models.OpponentContext, bool) {
	if v, found := c.store.Get(key); found {
		if octx, ok := v.(models.OpponentContext); ok {
			return octx, true
		}
	}
	return models.OpponentContext{}, false
}

func (c *ContextCache) set(key string, octx models.OpponentContext) {
	c.store.Set(key, octx, cache.NoExpiration)
}

func (c *ContextCache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.locks[key] = l
	return l
}

// ItemCount returns the number of cached contexts.
func (c *ContextCache) ItemCount() int {
	return c.store.ItemCount()
}

// ContextResolver resolves an opponent's aggregated defensive and pace
// profile from the team stats source, retrying transient faults with
// exponential backoff before propagating the failure to the caller.
type ContextResolver struct {
	source      datasource.TeamStatsSource
	logger      *logrus.Logger
	maxRetries  int
	backoffBase time.Duration
	throttle    time.Duration
	sleep       func(context.Context, time.Duration) error
}

// NewContextResolver creates a resolver with the standard retry policy.
func NewContextResolver(source datasource.TeamStatsSource, logger *logrus.Logger) *ContextResolver {
	return &ContextResolver{
		source:      source,
		logger:      logger,
		maxRetries:  resolverMaxRetries,
		backoffBase: resolverBackoffBase,
		sleep:       sleepContext,
	}
}

// SetThrottle spaces out consecutive uncached upstream lookups during batch
// runs. Zero disables the throttle.
func (r *ContextResolver) SetThrottle(d time.Duration) {
	if d >= 0 {
		r.throttle = d
	}
}

// Resolve returns the opponent context for (opponent, season, window),
// memoized in the supplied run-scoped cache. lastNGames of 0 means full
// season to date. A nil cache disables memoization.
func (r *ContextResolver) Resolve(ctx context.Context, runCache *ContextCache, opponent string, seasonID int, lastNGames int) (models.OpponentContext, error) {
	if runCache == nil {
		return r.fetch(ctx, opponent, seasonID, lastNGames)
	}

	key := contextKey(opponent, seasonID)
	lock := runCache.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if octx, found := runCache.get(key); found {
		metrics.OpponentCacheHitsTotal.Inc()
		r.logger.WithField("key", key).Debug("Opponent context cache hit")
		return octx, nil
	}

	octx, err := r.fetch(ctx, opponent, seasonID, lastNGames)
	if err != nil {
		return models.OpponentContext{}, err
	}

	runCache.set(key, octx)

	if r.throttle > 0 {
		// Ignore cancellation here, the context is already resolved.
		_ = r.sleep(ctx, r.throttle)
	}

	return octx, nil
}

// fetch performs the two upstream lookups with retry/backoff applied to the
// unit as a whole.
func (r *ContextResolver) fetch(ctx context.Context, opponent string, seasonID int, lastNGames int) (models.OpponentContext, error) {
	var (
		factors  models.FourFactors
		advanced models.AdvancedStats
		lastErr  error
	)

	// One initial attempt, then up to maxRetries retries.
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			// 2s, 4s, 8s
			delay := r.backoffBase << (attempt - 1)
			r.logger.WithFields(logrus.Fields{
				"opponent": opponent,
				"season":   seasonID,
				"attempt":  attempt + 1,
				"delay":    delay.String(),
			}).Warn("Retrying opponent context fetch")
			if err := r.sleep(ctx, delay); err != nil {
				return models.OpponentContext{}, err
			}
		}

		factors, lastErr = r.source.FetchFourFactors(ctx, opponent, seasonID, lastNGames)
		if lastErr == nil {
			advanced, lastErr = r.source.FetchAdvanced(ctx, opponent, seasonID, lastNGames)
		}
		if lastErr == nil {
			return models.OpponentContext{
				Opponent:   opponent,
				SeasonID:   seasonID,
				LastNGames: lastNGames,
				OppEFGPct:  factors.OppEFGPct,
				OppFTARate: factors.OppFTARate,
				OppORebPct: factors.OppORebPct,
				Pace:       advanced.Pace,
				DefRating:  advanced.DefRating,
			}, nil
		}

		if !datasource.IsTransient(lastErr) {
			return models.OpponentContext{}, lastErr
		}
	}

	return models.OpponentContext{}, fmt.Errorf("%w: opponent %s season %d after %d attempts: %v",
		models.ErrDataUnavailable, opponent, seasonID, r.maxRetries+1, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package tips

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/gemini"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTipStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMockTipStore() *mockTipStore {
	return &mockTipStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *mockTipStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (m *mockTipStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *mockTipStore) TipKey(date string) string {
	return "ag:tip:" + date
}

type mockTipGenerator struct {
	tip   string
	err   error
	calls int
}

func (m *mockTipGenerator) GenerateContent(ctx context.Context, system string, turns []gemini.Turn) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.tip, nil
}

var tipTestNow = time.Date(2026, 4, 5, 7, 30, 0, 0, time.UTC)

func buildTipService(t *testing.T, store *mockTipStore, gen *mockTipGenerator) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:     store,
		Generator: gen,
		CacheTTL:  48 * time.Hour,
		Logger:    logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
		Now:       func() time.Time { return tipTestNow },
		Pick:      func(n int) int { return 0 },
	})
	require.NoError(t, err)
	return svc
}

func TestDailyTipCacheHit(t *testing.T) {
	store := newMockTipStore()
	store.values["ag:tip:2026-04-05"] = "Mulch your beds."
	gen := &mockTipGenerator{tip: "should not be used"}
	svc := buildTipService(t, store, gen)

	resp := svc.DailyTip(context.Background())
	assert.Equal(t, "Mulch your beds.", resp.Tip)
	assert.True(t, resp.Cached)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "2026-04-05", resp.Date)
	assert.Zero(t, gen.calls, "cache hit must not call the model")
}

func TestDailyTipGeneratesAndCaches(t *testing.T) {
	store := newMockTipStore()
	gen := &mockTipGenerator{tip: "Scout for aphids before sunrise."}
	svc := buildTipService(t, store, gen)

	resp := svc.DailyTip(context.Background())
	assert.Equal(t, "Scout for aphids before sunrise.", resp.Tip)
	assert.False(t, resp.Cached)
	assert.False(t, resp.Fallback)

	assert.Equal(t, "Scout for aphids before sunrise.", store.values["ag:tip:2026-04-05"])
	assert.Equal(t, 48*time.Hour, store.ttls["ag:tip:2026-04-05"])

	// The second call inside the window hits the cache.
	resp = svc.DailyTip(context.Background())
	assert.True(t, resp.Cached)
	assert.Equal(t, 1, gen.calls)
}

func TestDailyTipFallsBackToYesterday(t *testing.T) {
	store := newMockTipStore()
	store.values["ag:tip:2026-04-04"] = "Yesterday's wisdom."
	gen := &mockTipGenerator{err: pkgerrors.New(pkgerrors.CodeDependency, "model down")}
	svc := buildTipService(t, store, gen)

	resp := svc.DailyTip(context.Background())
	assert.Equal(t, "Yesterday's wisdom.", resp.Tip)
	assert.True(t, resp.Cached)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "2026-04-04", resp.Date)
}

func TestDailyTipStaticFallbackNeverErrors(t *testing.T) {
	store := newMockTipStore()
	gen := &mockTipGenerator{err: pkgerrors.New(pkgerrors.CodeDependency, "model down")}
	svc := buildTipService(t, store, gen)

	resp := svc.DailyTip(context.Background())
	assert.Equal(t, defaultFallbackTips[0], resp.Tip)
	assert.False(t, resp.Cached)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "2026-04-05", resp.Date)
	assert.Empty(t, store.values, "nothing gets cached on the static fallback")
}

func TestDailyTipSurvivesCacheOutage(t *testing.T) {
	store := newMockTipStore()
	store.getErr = redislib.ErrClosed
	gen := &mockTipGenerator{tip: "Stake tomatoes before they sprawl."}
	svc := buildTipService(t, store, gen)

	resp := svc.DailyTip(context.Background())
	assert.Equal(t, "Stake tomatoes before they sprawl.", resp.Tip)
}

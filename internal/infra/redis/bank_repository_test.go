package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"scrollkeeper-service/internal/domain"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	banks map[string]domain.Bank
}

func (l *countingLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

func (l *countingLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, client := newTestRedis(t)
	loader := &countingLoader{banks: map[string]domain.Bank{
		"b1": {ID: "b1", Questions: []domain.Question{{ID: "q1", Text: "t", Answer: "a"}}},
	}}
	repo := NewBankRepository(client, loader, time.Minute)
	ctx := context.Background()

	bank, err := repo.GetBank(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if bank.ID != "b1" {
		t.Fatalf("unexpected bank: %+v", bank)
	}

	// The bank now lives under its data key with a TTL.
	raw, err := mr.Get("bank:b1:data")
	if err != nil {
		t.Fatalf("expected a cached entry: %v", err)
	}
	var cached domain.Bank
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("cached entry is not valid JSON: %v", err)
	}
	if mr.TTL("bank:b1:data") <= 0 {
		t.Fatal("expected a TTL on the cached entry")
	}

	// Subsequent reads are served from Redis without touching the loader.
	if _, err := repo.GetBank(ctx, "b1"); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if loader.callCount() != 1 {
		t.Fatalf("expected a single loader hit, got %d", loader.callCount())
	}
}

func TestBankRepositoryIgnoresCorruptCacheEntry(t *testing.T) {
	mr, client := newTestRedis(t)
	loader := &countingLoader{banks: map[string]domain.Bank{"b1": {ID: "b1"}}}
	repo := NewBankRepository(client, loader, time.Minute)

	mr.Set("bank:b1:data", "{not json")

	bank, err := repo.GetBank(context.Background(), "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if bank.ID != "b1" || loader.callCount() != 1 {
		t.Fatalf("expected a reload past the corrupt entry, got %+v (%d calls)", bank, loader.callCount())
	}
}

func TestBankRepositoryPropagatesLoaderError(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewBankRepository(client, &countingLoader{}, time.Minute)
	if _, err := repo.GetBank(context.Background(), "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank not found, got %v", err)
	}
}

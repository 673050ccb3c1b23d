package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[[]domain.Project](5 * time.Minute)
	defer c.Close()

	c.Set("projects", []domain.Project{{ID: "p-1", Name: "Loft"}})
	val, ok := c.Get("projects")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if len(val) != 1 || val[0].ID != "p-1" {
		t.Errorf("expected cached project p-1, got %+v", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	if _, ok := c.Get("nonexistent"); ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	c := cache.New[string](time.Minute, cache.WithClock(clock.Now))
	defer c.Close()

	c.Set("key1", "value1")
	clock.Advance(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("expected entry before ttl")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")

	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected key to be deleted")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("list:alice", "a")
	c.Set("list:bob", "b")
	c.Set("other", "o")
	c.DeletePrefix("list:")

	if c.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", c.Len())
	}
	if _, ok := c.Get("other"); !ok {
		t.Error("expected unrelated key to survive")
	}
}

func TestCache_DisabledWithZeroTTL(t *testing.T) {
	c := cache.New[string](0)
	defer c.Close()

	c.Set("key1", "value1")
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected caching disabled")
	}
}

package cache_test

import (
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/infra/cache"
	"github.com/equipe-feedtrack/feedtrack/internal/port"
)

var _ port.Cache[string] = (*cache.InMemory[string])(nil)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Stop()

	c.Set("jti-1", "admin")
	val, ok := c.Get("jti-1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "admin" {
		t.Errorf("expected 'admin', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Stop()

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Stop()

	c.SetWithTTL("jti-1", "admin", 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("jti-1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_JanitorSweeps(t *testing.T) {
	c := cache.New[bool](20 * time.Millisecond)
	defer c.Stop()

	c.Set("a", true)
	c.Set("b", true)
	time.Sleep(100 * time.Millisecond)

	if n := c.Len(); n != 0 {
		t.Errorf("expected expired entries to be swept, %d left", n)
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Stop()

	c.Set("jti-1", "admin")
	c.Delete("jti-1")

	_, ok := c.Get("jti-1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_StopTwice(t *testing.T) {
	c := cache.New[string](time.Minute)
	c.Stop()
	c.Stop()
}

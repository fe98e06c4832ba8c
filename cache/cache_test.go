package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func memoryCache(ttl time.Duration) *Cache {
	return New(context.Background(), Config{TTL: ttl})
}

func TestKey(t *testing.T) {
	a := Key("serp", "créatine", "France", "fr")
	b := Key("serp", "créatine", "France", "fr")
	c := Key("serp", "whey", "France", "fr")
	d := Key("page", "créatine", "France", "fr")

	if a != b {
		t.Error("identical inputs produced different keys")
	}
	if a == c {
		t.Error("different args produced the same key")
	}
	if a == d {
		t.Error("different categories produced the same key")
	}
	if len(a) != len("serp:")+16 {
		t.Errorf("unexpected key length: %q", a)
	}
}

func TestMemoryGetSet(t *testing.T) {
	c := memoryCache(time.Minute)
	ctx := context.Background()

	type payload struct {
		Query string `json:"query"`
		Score int    `json:"score"`
	}

	key := Key("analysis", "créatine")
	if err := c.Set(ctx, key, payload{Query: "créatine", Score: 60}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	found, err := c.Get(ctx, key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected a cache hit")
	}
	if got.Query != "créatine" || got.Score != 60 {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	c := memoryCache(time.Minute)

	var dest string
	found, err := c.Get(context.Background(), "absent", &dest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected a miss")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := memoryCache(time.Millisecond)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "value"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	var dest string
	found, err := c.Get(ctx, "k", &dest)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected the entry to have expired")
	}
}

func TestMemoryDelete(t *testing.T) {
	c := memoryCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", "value")
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}

	var dest string
	if found, _ := c.Get(ctx, "k", &dest); found {
		t.Error("expected the entry to be gone")
	}
}

func TestMemoryBounded(t *testing.T) {
	c := memoryCache(time.Minute)
	ctx := context.Background()

	for i := 0; i < memoryCapacity+100; i++ {
		c.Set(ctx, fmt.Sprintf("key-%d", i), i)
	}

	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()
	if size > memoryCapacity {
		t.Errorf("memory cache grew past capacity: %d entries", size)
	}
}

func TestMemoryOnlyMode(t *testing.T) {
	c := memoryCache(time.Minute)
	if c.Redis() {
		t.Error("expected memory-only mode without a Redis address")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

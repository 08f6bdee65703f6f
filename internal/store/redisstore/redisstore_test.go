package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeyPrefix(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	if got := NewWithClient(rdb, "", 0).Key("todos"); got != "tada:todos" {
		t.Errorf("default prefix: got %q, want tada:todos", got)
	}
	if got := NewWithClient(rdb, "work/", 0).Key("theme"); got != "work/theme" {
		t.Errorf("custom prefix: got %q, want work/theme", got)
	}
}

func TestNewRequiresAddr(t *testing.T) {
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Error("New with empty addr: expected error")
	}
}

// Runs against a real server only when TADA_TEST_REDIS_ADDR is set.
func TestRoundTripLive(t *testing.T) {
	addr := os.Getenv("TADA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TADA_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := fmt.Sprintf("tada-test-%d:", time.Now().UnixNano())
	s, err := New(ctx, Options{Addr: addr, Prefix: prefix, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		s.rdb.Del(ctx, s.Key("theme"))
		s.Close()
	}()

	if _, ok, err := s.Get(ctx, "theme"); err != nil || ok {
		t.Fatalf("Get before Set: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("Get after Set: got (%q, %v, %v)", v, ok, err)
	}
}

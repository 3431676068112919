package cache

import (
	"context"
	"testing"

	"github.com/sabor-next/internal/config"
)

func TestCacheDisabledDegradesQuietly(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled cache failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache must stay disabled")
	}
	if Client() != nil {
		t.Fatalf("client must be nil when disabled")
	}

	ctx := context.Background()
	var dest []string
	hit, err := GetJSON(ctx, "promotions:catalog", &dest)
	if err != nil || hit {
		t.Fatalf("disabled read must be a quiet miss, hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, "promotions:catalog", []string{"menu"}, 0); err != nil {
		t.Fatalf("disabled write must be a no-op, got %v", err)
	}
	if err := Del(ctx, "promotions:catalog"); err != nil {
		t.Fatalf("disabled delete must be a no-op, got %v", err)
	}
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	s := &redisStore{prefix: "sb"}
	if got := s.key("promotions:catalog"); got != "sb:promotions:catalog" {
		t.Fatalf("key want sb:promotions:catalog got %q", got)
	}
	if got := s.key("  "); got != "sb" {
		t.Fatalf("blank key must collapse to the prefix, got %q", got)
	}
}

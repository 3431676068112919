package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sabor-next/internal/config"
	"github.com/sabor-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// 缓存是可选依赖：未启用时所有操作静默降级，
// 读一律未命中，写与失效是空操作，业务路径不因缓存缺席报错。

type redisStore struct {
	client *redis.Client
	prefix string
}

func (s *redisStore) key(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return s.prefix
	}
	return s.prefix + ":" + trimmed
}

var store *redisStore

// InitRedis 初始化 Redis 客户端（cfg 未启用时保持降级态）
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		store = nil
		return nil
	}

	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = constants.RedisPrefixDefault
	}

	store = &redisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", addr, port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}
	return nil
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return store != nil && store.client != nil
}

// Client 获取 Redis 客户端（降级态返回 nil）
func Client() *redis.Client {
	if !Enabled() {
		return nil
	}
	return store.client
}

// GetJSON 读取 JSON 缓存，返回是否命中
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	val, err := store.client.Get(ctx, store.key(key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存（ttl 为 0 表示不过期）
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.client.Set(ctx, store.key(key), payload, ttl).Err()
}

// Del 删除缓存键
func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return store.client.Del(ctx, store.key(key)).Err()
}

package cache

import (
	"context"
	"fmt"

	"recipe-importer/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// Service Redis 緩存服務
// 第二層緩存：行程重啟後仍保留模型回應，避免重複付費呼叫
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建 Redis 緩存服務
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if !s.config.Enabled || s.client == nil {
		return "", fmt.Errorf("cache is disabled")
	}

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("cache miss")
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return value, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key, value string) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}
	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

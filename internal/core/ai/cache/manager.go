package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 兩層緩存管理器
// 第一層是行程內的記憶體緩存（TTL + LRU 淘汰），
// 第二層是 Redis；記憶體未命中時回退 Redis 並回填
type CacheManager struct {
	config  *config.Config
	redis   *Service
	mu      sync.RWMutex
	store   map[string]cacheEntry
	stats   cacheStats
	done    chan struct{}
	closeMu sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建新的緩存管理器
// Redis 連不上時降級為純記憶體緩存，不阻止服務啟動
func NewManager(cfg *config.Config) *CacheManager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &CacheManager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	redisSvc, err := NewService(&cfg.Cache)
	if err != nil {
		common.LogWarn("Redis 連線失敗，降級為記憶體緩存",
			zap.Error(err),
			zap.String("addr", cfg.Cache.RedisAddr),
		)
	} else {
		m.redis = redisSvc
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup()

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
		zap.Bool("redis", m.redis != nil),
	)

	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, prompt, imageData string) (string, error) {
	if m == nil || !m.config.Cache.Enabled {
		return "", common.ErrCacheDisabled
	}

	key := m.generateKey(prompt, imageData)

	m.mu.Lock()
	if entry, exists := m.store[key]; exists {
		if time.Now().After(entry.expiresAt) {
			delete(m.store, key)
			m.stats.evictions++
			m.mu.Unlock()
			return m.getFromRedis(ctx, key)
		}

		// 更新訪問統計
		entry.lastAccess = time.Now()
		entry.accessCount++
		m.store[key] = entry
		m.stats.hits++
		m.mu.Unlock()

		common.LogCacheHit("memory", key)
		return entry.value, nil
	}
	m.stats.misses++
	m.mu.Unlock()

	return m.getFromRedis(ctx, key)
}

// getFromRedis 回退到第二層，命中時回填記憶體
func (m *CacheManager) getFromRedis(ctx context.Context, key string) (string, error) {
	if m.redis == nil {
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheDisabled
	}

	value, err := m.redis.Get(ctx, key)
	if err != nil {
		common.LogCacheMiss("redis", key)
		return "", common.ErrCacheDisabled
	}

	m.setMemory(key, value)
	common.LogCacheHit("redis", key)
	return value, nil
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, prompt, imageData, value string) error {
	if m == nil || !m.config.Cache.Enabled {
		return nil
	}

	key := m.generateKey(prompt, imageData)
	m.setMemory(key, value)

	if m.redis != nil {
		if err := m.redis.Set(ctx, key, value); err != nil {
			m.mu.Lock()
			m.stats.errors++
			m.mu.Unlock()
			common.LogWarn("Redis 寫入失敗", zap.Error(err))
		}
	}

	return nil
}

// setMemory 寫入記憶體層，必要時先清理或淘汰
func (m *CacheManager) setMemory(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.config.Cache.MaxSize {
		evicted := m.cleanup()
		common.LogDebug("快取清理執行",
			zap.Int("清理數量", evicted),
		)
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRU()
		}
	}

	now := time.Now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// generateKey 生成緩存鍵
func (m *CacheManager) generateKey(prompt, imageData string) string {
	if imageData == "" {
		return fmt.Sprintf("text:%s", hashString(prompt))
	}
	return fmt.Sprintf("multimodal:%s:%s", hashString(prompt), hashString(imageData))
}

// hashString 計算字符串的 SHA-256 哈希值
func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// startCleanup 啟動清理過期緩存的協程
func (m *CacheManager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanup()
			m.mu.Unlock()
			if count > 0 {
				common.LogInfo("Cleaned up expired cache entries",
					zap.Int("count", count),
				)
			}
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的緩存，呼叫端須持有鎖
func (m *CacheManager) cleanup() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRU 淘汰最少使用的條目，呼叫端須持有鎖
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"enabled":   true,
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"redis":     m.redis != nil,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() {
	if m == nil {
		return
	}
	m.closeMu.Do(func() {
		close(m.done)
		if m.redis != nil {
			_ = m.redis.Close()
		}
	})
}

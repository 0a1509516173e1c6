package service

import (
	"context"
	"strings"

	"recipe-importer/internal/core/ai/cache"
	"recipe-importer/internal/core/ai/openrouter"
	"recipe-importer/internal/core/ai/queue"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Service AI 服務
// 統一入口：先查緩存，未命中時經由隊列呼叫模型，成功後回寫緩存
type Service struct {
	config       *config.Config
	queueManager *queue.Manager
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) (*Service, error) {
	client := openrouter.NewClient(cfg)
	queueManager := queue.NewManager(cfg, client)

	return &Service{
		config:       cfg,
		queueManager: queueManager,
		cacheManager: cacheManager,
	}, nil
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string, imageData string) (*Response, error) {
	// 統一 prompt 格式，去除多餘空白與換行，確保快取鍵一致
	prompt = common.CollapseWhitespace(strings.TrimSpace(prompt))

	// 檢查緩存
	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, prompt, imageData); err == nil && val != "" {
			return &Response{Content: val}, nil
		}
	}

	resultCh, err := s.queueManager.Enqueue(ctx, prompt, imageData)
	if err != nil {
		return nil, err
	}

	select {
	case result := <-resultCh:
		if result.Error != nil {
			return nil, result.Error
		}
		if s.config.Cache.Enabled && s.cacheManager != nil {
			_ = s.cacheManager.Set(ctx, prompt, imageData, result.Content)
		}
		return &Response{Content: result.Content}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// QueueStatus 隊列狀態，供健康檢查回報
func (s *Service) QueueStatus() *queue.Status {
	return s.queueManager.GetQueueStatus()
}

// Close 關閉底層隊列
func (s *Service) Close() {
	s.queueManager.Close()
}

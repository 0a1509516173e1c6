package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"recipe-importer/internal/core/ai/openrouter"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// Request 隊列請求
type Request struct {
	Context   context.Context
	Prompt    string
	ImageData string
	Result    chan Result
}

// Result 處理結果
type Result struct {
	Content string
	Error   error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器
// 所有對模型的呼叫都經過這裡，由固定數量的 worker 依序消化
type Manager struct {
	config    *config.Config
	client    *openrouter.Client
	queue     chan *Request
	done      chan struct{}
	processed int64
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg *config.Config, client *openrouter.Client) *Manager {
	m := &Manager{
		config: cfg,
		client: client,
		queue:  make(chan *Request, cfg.Queue.MaxSize),
		done:   make(chan struct{}),
	}

	for i := 0; i < cfg.Queue.Workers; i++ {
		go m.worker(i)
	}

	return m
}

// worker 消化隊列中的模型請求
func (m *Manager) worker(id int) {
	for {
		select {
		case req, ok := <-m.queue:
			if !ok {
				return
			}
			content, err := m.client.GenerateResponse(req.Context, req.Prompt, req.ImageData)
			atomic.AddInt64(&m.processed, 1)
			req.Result <- Result{Content: content, Error: err}
		case <-m.done:
			return
		}
	}
}

// Enqueue 將請求加入隊列
func (m *Manager) Enqueue(ctx context.Context, prompt, imageData string) (chan Result, error) {
	// 檢查隊列容量
	if len(m.queue) >= m.config.Queue.MaxSize {
		return nil, fmt.Errorf("queue is full")
	}

	req := &Request{
		Context:   ctx,
		Prompt:    prompt,
		ImageData: imageData,
		Result:    make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.Queue.MaxSize),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, fmt.Errorf("queue manager is closed")
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.Queue.MaxSize,
		Workers:        m.config.Queue.Workers,
	}
}

// Close 關閉隊列管理器
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

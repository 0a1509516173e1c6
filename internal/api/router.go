package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recipe-importer/internal/api/handlers/health"
	importerHandler "recipe-importer/internal/api/handlers/importer"
	"recipe-importer/internal/api/middleware"
	"recipe-importer/internal/core/adapter"
	"recipe-importer/internal/core/ai/cache"
	"recipe-importer/internal/core/ai/service"
	"recipe-importer/internal/core/image"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (10MB)，多頁圖片匯入需要空間
	maxBodySize = 10 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager) (*gin.Engine, *service.Service, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制與重複請求過濾
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	aiService, err := service.NewService(cfg, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	// 初始化圖片處理器
	imageProcessor := image.NewProcessor(cfg.Image.MaxSizeBytes)

	// 初始化來源轉接器
	urlAdapter := adapter.NewURLAdapter(cfg)
	ocrAdapter := adapter.NewOCRAdapter(aiService, imageProcessor)
	aiAdapter := adapter.NewAIAdapter(aiService)

	common.LogInfo("Import adapters initialized successfully",
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置
		c.Set("config", cfg)

		// 設置 AI 服務
		c.Set("ai_service", aiService)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		importHandler := importerHandler.NewHandler(urlAdapter, ocrAdapter, aiAdapter)

		importGroup := api.Group("/import")
		{
			// 由網頁網址匯入
			importGroup.POST("/url", importHandler.HandleImportURL)

			// 由圖片（照片、截圖、掃描）匯入
			importGroup.POST("/image", importHandler.HandleImportImage)

			// 由貼上的文字匯入
			importGroup.POST("/text", importHandler.HandleImportText)

			// 將審核後的結果投影為領域記錄
			importGroup.POST("/project", importHandler.HandleProject)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, aiService, nil
}

package importer

import (
	"net/http"

	"recipe-importer/internal/core/adapter"
	"recipe-importer/internal/core/ingest"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportURLRequest 由食譜網頁網址匯入
type ImportURLRequest struct {
	URL string `json:"url" binding:"required"` // 食譜頁面的完整網址
}

// ImportImageRequest 由一或多張圖片（照片、截圖、掃描）匯入
type ImportImageRequest struct {
	Images []string `json:"images" binding:"required"` // 圖片網址、data URI 或 base64，多頁依序排列
}

// ImportTextRequest 由貼上的自由文字匯入
type ImportTextRequest struct {
	Text string `json:"text" binding:"required"` // 食譜原文
}

// ImportEnvelope 匯入響應：標準中介結果加上路由決策與信心摘要
type ImportEnvelope struct {
	Result                 *ingest.UnifiedImportResult `json:"result"`
	Route                  ingest.RouteDecision        `json:"route"`
	OverallConfidence      float64                     `json:"overall_confidence"`
	ConfidenceBand         string                      `json:"confidence_band"`
	FieldsNeedingAttention []string                    `json:"fields_needing_attention,omitempty"`
}

// Handler 匯入處理程序
type Handler struct {
	urlAdapter *adapter.URLAdapter
	ocrAdapter *adapter.OCRAdapter
	aiAdapter  *adapter.AIAdapter
}

// NewHandler 創建新的匯入處理程序
func NewHandler(urlAdapter *adapter.URLAdapter, ocrAdapter *adapter.OCRAdapter, aiAdapter *adapter.AIAdapter) *Handler {
	return &Handler{
		urlAdapter: urlAdapter,
		ocrAdapter: ocrAdapter,
		aiAdapter:  aiAdapter,
	}
}

// HandleImportURL 抓取網頁並解析為標準中介結果
func (h *Handler) HandleImportURL(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ImportURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("開始處理網址匯入",
		zap.String("request_id", requestID),
		zap.String("url", req.URL),
	)

	result, err := h.urlAdapter.ImportFromURL(c.Request.Context(), req.URL)
	if err != nil {
		respondAdapterError(c, requestID, err)
		return
	}
	respondResult(c, requestID, result)
}

// HandleImportImage 辨識圖片文字並解析為標準中介結果
func (h *Handler) HandleImportImage(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ImportImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Images) == 0 {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("開始處理圖片匯入",
		zap.String("request_id", requestID),
		zap.Int("pages", len(req.Images)),
	)

	result, err := h.ocrAdapter.ScanImages(c.Request.Context(), req.Images)
	if err != nil {
		respondAdapterError(c, requestID, err)
		return
	}
	respondResult(c, requestID, result)
}

// HandleImportText 將自由文字交給模型萃取為標準中介結果
func (h *Handler) HandleImportText(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ImportTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("開始處理文字匯入",
		zap.String("request_id", requestID),
		zap.Int("text_length", len(req.Text)),
	)

	result, err := h.aiAdapter.SendToAI(c.Request.Context(), req.Text)
	if err != nil {
		respondAdapterError(c, requestID, err)
		return
	}
	respondResult(c, requestID, result)
}

// respondResult 解析一次路由決策並回傳匯入信封
// 資料不足以 422 拒絕，其餘依決策交由前端導向審核頁或記錄頁
func respondResult(c *gin.Context, requestID string, result *ingest.UnifiedImportResult) {
	route, err := result.Route()
	if err != nil {
		common.LogWarn("匯入資料不足，拒絕",
			zap.String("request_id", requestID),
			zap.String("source", string(result.Source)),
		)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": common.ErrInsufficientData.Message,
			"code":  common.ErrCodeInsufficientData,
		})
		return
	}

	overall := result.Confidence.Overall()
	common.LogInfo("匯入完成",
		zap.String("request_id", requestID),
		zap.String("source", string(result.Source)),
		zap.String("route", string(route)),
		zap.Float64("overall_confidence", overall),
	)

	c.JSON(http.StatusOK, ImportEnvelope{
		Result:                 result,
		Route:                  route,
		OverallConfidence:      overall,
		ConfidenceBand:         ingest.Band(overall),
		FieldsNeedingAttention: result.Confidence.FieldsNeedingAttention(),
	})
}

// respondAdapterError 依轉接器錯誤類別映射 HTTP 狀態碼
func respondAdapterError(c *gin.Context, requestID string, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	if adapterErr, ok := common.IsAdapterError(err); ok {
		kind = string(adapterErr.Kind)
		switch adapterErr.Kind {
		case common.AdapterErrMalformed:
			status = http.StatusBadRequest
		case common.AdapterErrTimeout:
			status = http.StatusGatewayTimeout
		case common.AdapterErrRateLimited:
			status = http.StatusTooManyRequests
		case common.AdapterErrAuth, common.AdapterErrNetwork:
			status = http.StatusBadGateway
		}
	}

	common.LogError("匯入失敗",
		zap.Error(err),
		zap.String("request_id", requestID),
		zap.String("error_kind", kind),
	)
	c.JSON(status, gin.H{
		"error": "Import failed",
		"kind":  kind,
	})
}

func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

package importer

import (
	"net/http"
	"strings"

	"recipe-importer/internal/core/ingest"
	"recipe-importer/internal/core/project"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectRequest 將審核後的中介結果投影為領域記錄
// kind 省略時由 course 解析；selections 省略時全部保留
type ProjectRequest struct {
	Result     ingest.UnifiedImportResult `json:"result" binding:"required"` // 審核頁修改後的中介結果
	Kind       string                     `json:"kind,omitempty"`            // generic、modernist、pizza、smoking
	Selections project.Selections         `json:"selections,omitempty"`      // 勾選保留的項目索引
}

// ProjectResponse 投影結果
type ProjectResponse struct {
	Kind   project.RecordKind `json:"kind"`
	Record any                `json:"record"`
}

// HandleProject 依類別查表分派到對應的投影器，產生最終領域記錄
func (h *Handler) HandleProject(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// 投影前再驗一次底線，審核期間可能被清空
	if !req.Result.HasMinimumData() {
		common.LogWarn("投影資料不足，拒絕",
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": common.ErrInsufficientData.Message,
			"code":  common.ErrCodeInsufficientData,
		})
		return
	}

	kind := project.ResolveKind(req.Result.Course)
	if strings.TrimSpace(req.Kind) != "" {
		kind = project.RecordKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	}

	id := uuid.New()
	record, err := project.Project(kind, &req.Result, id, req.Selections)
	if err != nil {
		common.LogError("投影失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("kind", string(kind)),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown record kind"})
		return
	}

	common.LogInfo("投影完成",
		zap.String("request_id", requestID),
		zap.String("kind", string(kind)),
		zap.String("record_id", id.String()),
	)

	c.JSON(http.StatusOK, ProjectResponse{
		Kind:   kind,
		Record: record,
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// setupObservedLogger 以可檢視的 logger 取代全局實例
func setupObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	prev := common.Logger
	common.Logger = zap.New(core)
	t.Cleanup(func() { common.Logger = prev })
	return logs
}

func TestLoggerRecordsPayloadSizes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := setupObservedLogger(t)

	r := gin.New()
	r.Use(Logger())
	r.POST("/api/v1/import/image", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	body := strings.NewReader(`{"image":"` + strings.Repeat("a", 2048) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/image", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entries := logs.FilterMessage("請求完成").All()
	if len(entries) != 1 {
		t.Fatalf("請求完成 log 筆數 = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if size, ok := fields["request_size"].(int64); !ok || size <= 0 {
		t.Errorf("request_size = %v, want 正數", fields["request_size"])
	}
	if size, ok := fields["response_size"].(int64); !ok || size <= 0 {
		t.Errorf("response_size = %v, want 正數", fields["response_size"])
	}
	// 只記大小，不記請求內容
	for key := range fields {
		if strings.Contains(key, "body") {
			t.Errorf("不應記錄請求內容欄位 %q", key)
		}
	}
}

func TestLoggerSkipsHealthChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := setupObservedLogger(t)

	r := gin.New()
	r.Use(Logger())
	r.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ready", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/live", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if n := logs.Len(); n != 0 {
		t.Errorf("健康檢查不應產生 log，got %d 筆", n)
	}
}

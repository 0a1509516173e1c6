package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter API 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://recipe-importer.app").
		SetHeader("X-Title", "Recipe Importer")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Response API 回應結構
type Response struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateResponse 發送 prompt（可附帶圖片）並回傳模型輸出的文字
// 失敗一律回傳帶類別的轉接器錯誤，不回傳不完整內容
func (c *Client) GenerateResponse(ctx context.Context, prompt string, imageData string) (string, error) {
	msgContent := []map[string]interface{}{
		{
			"type": "text",
			"text": prompt,
		},
	}
	if imageData != "" {
		url := imageData
		if !strings.HasPrefix(imageData, "data:image/") {
			url = fmt.Sprintf("data:image/jpeg;base64,%s", imageData)
		}
		msgContent = append(msgContent, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": url,
			},
		})
	}

	// 構建請求
	body := map[string]interface{}{
		"model": c.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": msgContent,
			},
		},
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	start := time.Now()
	var result Response
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")

	common.LogAICall(prompt, time.Since(start), err, "")

	if err != nil {
		return "", classifyTransportError(err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return "", common.NewAdapterError(common.AdapterErrAuth, fmt.Errorf("openrouter: status %d", resp.StatusCode()))
	case resp.StatusCode() == http.StatusTooManyRequests:
		return "", common.NewAdapterError(common.AdapterErrRateLimited, fmt.Errorf("openrouter: status %d", resp.StatusCode()))
	case resp.StatusCode() >= 400:
		return "", common.NewAdapterError(common.AdapterErrNetwork, fmt.Errorf("openrouter: status %d", resp.StatusCode()))
	}

	if result.Error != nil {
		return "", common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("openrouter: %s", result.Error.Message))
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", common.NewAdapterError(common.AdapterErrMalformed, errors.New("openrouter: empty completion"))
	}

	content := result.Choices[0].Message.Content
	common.LogDebug("OpenRouter 回應",
		zap.Int("content_length", len(content)),
	)

	return content, nil
}

// classifyTransportError 將傳輸層錯誤歸類
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.NewAdapterError(common.AdapterErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return common.NewAdapterError(common.AdapterErrTimeout, err)
	}
	if strings.Contains(err.Error(), "Client.Timeout") {
		return common.NewAdapterError(common.AdapterErrTimeout, err)
	}
	return common.NewAdapterError(common.AdapterErrNetwork, err)
}

package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Processor 圖片處理服務
// 匯入來源的照片先經過這裡驗證、統一轉成 JPEG data URI 再交給視覺模型
type Processor struct {
	maxSizeBytes int64
	httpClient   *http.Client
}

// NewProcessor 創建圖片處理服務
func NewProcessor(maxSizeBytes int64) *Processor {
	return &Processor{
		maxSizeBytes: maxSizeBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProcessImage 處理圖片：接受 http(s) URL 或 base64 data URI，
// 驗證大小與格式後統一重新編碼為 JPEG data URI
func (p *Processor) ProcessImage(imageData string) (string, error) {
	var raw []byte

	switch {
	case strings.HasPrefix(imageData, "http://"), strings.HasPrefix(imageData, "https://"):
		downloaded, err := p.download(imageData)
		if err != nil {
			return "", err
		}
		raw = downloaded
	case strings.HasPrefix(imageData, "data:image/"):
		parts := strings.Split(imageData, ",")
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid base64 data format")
		}
		decoded, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return "", fmt.Errorf("failed to decode base64 data: %w", err)
		}
		raw = decoded
	default:
		// 沒有 data URI 前綴時當成裸 base64 處理
		decoded, err := base64.StdEncoding.DecodeString(imageData)
		if err != nil {
			return "", fmt.Errorf("invalid image data format")
		}
		raw = decoded
	}

	if int64(len(raw)) > p.maxSizeBytes {
		common.LogImageProcessing("warn", "圖片超出大小限制",
			zap.Int("size", len(raw)),
			zap.Int64("max_size", p.maxSizeBytes),
		)
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", p.maxSizeBytes)
	}

	encoded, err := reencodeJPEG(raw)
	if err != nil {
		common.LogImageProcessing("error", "圖片重新編碼失敗", zap.Error(err))
		return "", err
	}
	return encoded, nil
}

// download 下載遠端圖片
func (p *Processor) download(url string) ([]byte, error) {
	resp, err := p.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, p.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return raw, nil
}

// reencodeJPEG 解碼並統一轉成 JPEG data URI
func reencodeJPEG(raw []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if !isSupportedFormat(format) {
		return "", fmt.Errorf("unsupported image format: %s", format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}

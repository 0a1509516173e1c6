package adapter

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"recipe-importer/internal/core/ai/service"
	"recipe-importer/internal/core/image"
	"recipe-importer/internal/core/ingest"
	"recipe-importer/internal/pkg/common"
)

// OCR 出處信心一律偏低：辨識文字的欄位歸屬是用啟發式猜的
const (
	ocrNameConfidence = 0.5
	ocrListConfidence = 0.4
)

// ocrPrompt 只要求逐字轉錄，欄位切分交給本地啟發式，
// 避免讓模型同時做轉錄和結構化兩件事
const ocrPrompt = `Transcribe every piece of text visible in this photo of a recipe, line by line, exactly as written. Preserve the original line order. Output plain text only, no commentary, no JSON.`

// OCRAdapter 照片匯入轉接器
// 照片先經視覺模型轉錄成純文字，再以行啟發式切成欄位
type OCRAdapter struct {
	aiService      *service.Service
	imageProcessor *image.Processor
}

// NewOCRAdapter 創建照片匯入轉接器
func NewOCRAdapter(aiService *service.Service, imageProcessor *image.Processor) *OCRAdapter {
	return &OCRAdapter{
		aiService:      aiService,
		imageProcessor: imageProcessor,
	}
}

// ScanImage 單張照片匯入
func (o *OCRAdapter) ScanImage(ctx context.Context, imageData string) (*ingest.UnifiedImportResult, error) {
	return o.ScanImages(ctx, []string{imageData})
}

// ScanImages 多張照片匯入：逐頁轉錄後合併文字，只產出一個結果
func (o *OCRAdapter) ScanImages(ctx context.Context, images []string) (*ingest.UnifiedImportResult, error) {
	if len(images) == 0 {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("no images provided"))
	}

	var pages []string
	for i, img := range images {
		processed, err := o.imageProcessor.ProcessImage(img)
		if err != nil {
			return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("image %d: %w", i+1, err))
		}

		resp, err := o.aiService.ProcessRequest(ctx, ocrPrompt, processed)
		if err != nil {
			if _, ok := common.IsAdapterError(err); ok {
				return nil, err
			}
			return nil, common.NewAdapterError(common.AdapterErrNetwork, err)
		}
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("image %d: empty transcription", i+1))
		}
		pages = append(pages, resp.Content)
	}

	result := parseRecognizedText(strings.Join(pages, "\n"))
	return result, nil
}

var (
	// 以數量開頭的行視為食材，例如「2 cups flour」「½ tsp salt」
	quantityPattern = regexp.MustCompile(`^[\d¼½¾⅓⅔⅛⅜⅝⅞]+[\d/.\s¼½¾⅓⅔⅛⅜⅝⅞-]*`)
	// 以步驟編號開頭的行視為作法，例如「1.」「Step 2」
	stepPattern = regexp.MustCompile(`(?i)^(step\s*\d+|\d+[.)])\s*`)
)

// 常見量詞，用來從食材行切出單位
var knownUnits = map[string]bool{
	"cup": true, "cups": true, "tbsp": true, "tablespoon": true, "tablespoons": true,
	"tsp": true, "teaspoon": true, "teaspoons": true, "g": true, "kg": true,
	"gram": true, "grams": true, "oz": true, "ounce": true, "ounces": true,
	"lb": true, "lbs": true, "pound": true, "pounds": true, "ml": true, "l": true,
	"liter": true, "liters": true, "quart": true, "quarts": true, "pint": true,
	"pints": true, "clove": true, "cloves": true, "slice": true, "slices": true,
	"can": true, "cans": true, "stick": true, "sticks": true, "bunch": true,
	"pinch": true, "dash": true,
}

// parseRecognizedText 行啟發式：
// 第一個非空行當名稱；尾端帶冒號的短行當段落標題；
// 以數量開頭的行當食材；帶步驟編號或明顯是句子的行當作法
func parseRecognizedText(text string) *ingest.UnifiedImportResult {
	result := &ingest.UnifiedImportResult{Source: ingest.SourceOCR}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if result.Name == "" {
			result.Name = line
			continue
		}

		switch {
		case isSectionHeader(line):
			result.RawIngredients = append(result.RawIngredients, ingest.RawIngredientLine{
				SectionName: strings.TrimSpace(strings.TrimSuffix(line, ":")),
			})
		case stepPattern.MatchString(line):
			result.RawDirections = append(result.RawDirections, stepPattern.ReplaceAllString(line, ""))
		case quantityPattern.MatchString(line):
			result.RawIngredients = append(result.RawIngredients, parseIngredientLine(line))
		case looksLikeSentence(line):
			result.RawDirections = append(result.RawDirections, line)
		default:
			// 沒有數量的短行多半還是食材（「Salt to taste」）
			result.RawIngredients = append(result.RawIngredients, ingest.RawIngredientLine{Name: line})
		}
	}

	if result.Name != "" {
		result.Confidence.Name = ocrNameConfidence
	}
	if len(result.RawIngredients) > 0 {
		result.Confidence.Ingredients = ocrListConfidence
	}
	if len(result.RawDirections) > 0 {
		result.Confidence.Directions = ocrListConfidence
	}

	return result
}

// isSectionHeader 尾端帶冒號且不含數量的短行，例如「For the glaze:」
func isSectionHeader(line string) bool {
	if !strings.HasSuffix(line, ":") {
		return false
	}
	if quantityPattern.MatchString(line) {
		return false
	}
	return len(strings.Fields(line)) <= 6
}

// looksLikeSentence 長度與字數像指令句的行
func looksLikeSentence(line string) bool {
	words := strings.Fields(line)
	if len(words) >= 8 {
		return true
	}
	return strings.HasSuffix(line, ".") && len(words) >= 4
}

// parseIngredientLine 從「2 cups flour, sifted」切出數量、單位、名稱、處理方式
func parseIngredientLine(line string) ingest.RawIngredientLine {
	amount := strings.TrimSpace(quantityPattern.FindString(line))
	rest := strings.TrimSpace(line[len(quantityPattern.FindString(line)):])

	unit := ""
	if fields := strings.Fields(rest); len(fields) > 0 {
		if knownUnits[strings.ToLower(strings.Trim(fields[0], ".,"))] {
			unit = fields[0]
			rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
		}
	}

	name, preparation := rest, ""
	if idx := strings.Index(rest, ","); idx != -1 {
		name = strings.TrimSpace(rest[:idx])
		preparation = strings.TrimSpace(rest[idx+1:])
	}

	return ingest.RawIngredientLine{
		Name:        name,
		Amount:      amount,
		Unit:        unit,
		Preparation: preparation,
	}
}

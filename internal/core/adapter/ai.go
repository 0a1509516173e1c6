package adapter

import (
	"context"
	"fmt"
	"strings"

	"recipe-importer/internal/core/ai/service"
	"recipe-importer/internal/core/ingest"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// AI 擷取的出處信心，中等；低於結構化標記、高於 OCR
const (
	aiNameConfidence  = 0.75
	aiListConfidence  = 0.7
	aiFieldConfidence = 0.6
)

// AIAdapter 自由文字匯入轉接器
// 把使用者貼上的整段文字交給語言模型擷取成統一匯入結果
type AIAdapter struct {
	aiService *service.Service
}

// NewAIAdapter 創建自由文字匯入轉接器
func NewAIAdapter(aiService *service.Service) *AIAdapter {
	return &AIAdapter{aiService: aiService}
}

// SendToAI 將自由文字送交模型擷取
// 模型或傳輸失敗時回傳帶類別的轉接器錯誤，絕不回傳不完整的結果
func (a *AIAdapter) SendToAI(ctx context.Context, text string) (*ingest.UnifiedImportResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("empty input text"))
	}

	prompt := buildExtractionPrompt(text)

	resp, err := a.aiService.ProcessRequest(ctx, prompt, "")
	if err != nil {
		if _, ok := common.IsAdapterError(err); ok {
			return nil, err
		}
		return nil, common.NewAdapterError(common.AdapterErrNetwork, err)
	}
	if resp == nil || resp.Content == "" {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("empty AI response"))
	}

	content := common.QuoteJSONKeys(common.ExtractJSONObject(resp.Content))

	common.LogDebug("AI 回應內容 (import/text)",
		zap.Int("ai_response_length", len(content)),
	)

	var extraction common.RecipeExtraction
	if err := common.ParseJSON(content, &extraction); err != nil {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("failed to parse AI response: %w", err))
	}

	return resultFromExtraction(&extraction, ingest.SourceAI), nil
}

// buildExtractionPrompt 組出擷取用 prompt
func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(`Extract the recipe from the text below into JSON.
		Rules:
		1. Only use information present in the text, do not invent ingredients or steps
		2. If a field cannot be determined, use an empty string, never a guess
		3. Ingredient section headings (like "For the glaze") become entries with an empty "name" and the heading in "section"
		4. Every ingredient after a heading carries that heading in its "section" field
		5. Keep amounts and units as free text exactly as written
		6. All keys must be double quoted, return the most compact JSON possible, no line breaks

		Return exactly this JSON shape:
		{
		"name": "recipe name",
		"course": "course or category",
		"cuisine": "cuisine",
		"serves": "servings as written",
		"time": "total time as written",
		"ingredients": [
			{
			"name": "ingredient name",
			"amount": "amount as written",
			"unit": "unit as written",
			"preparation": "prep note",
			"alternative": "substitute if mentioned",
			"section": "section heading",
			"baker_percent": "bakers percentage if given"
			}
		],
		"directions": ["step one", "step two"],
		"equipment": ["equipment mentioned"],
		"notes": "other notes",
		"glass": "glass for drinks",
		"garnish": ["garnish for drinks"]
		}

		Text:
		%s`, text)
}

// resultFromExtraction 將模型擷取結果轉為統一匯入結果
// 只替實際有填入內容的欄位標信心分數，空欄位維持 0
func resultFromExtraction(ext *common.RecipeExtraction, source ingest.ImportSource) *ingest.UnifiedImportResult {
	result := &ingest.UnifiedImportResult{
		Name:          strings.TrimSpace(ext.Name),
		Course:        strings.TrimSpace(ext.Course),
		Cuisine:       strings.TrimSpace(ext.Cuisine),
		Serves:        strings.TrimSpace(ext.Serves),
		Time:          strings.TrimSpace(ext.Time),
		RawDirections: ext.Directions,
		Equipment:     ext.Equipment,
		Notes:         ext.Notes,
		Glass:         ext.Glass,
		Garnish:       ext.Garnish,
		Source:        source,
	}

	for _, ing := range ext.Ingredients {
		result.RawIngredients = append(result.RawIngredients, ingest.RawIngredientLine{
			Name:         ing.Name,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
			Preparation:  ing.Preparation,
			Alternative:  ing.Alternative,
			SectionName:  ing.Section,
			BakerPercent: ing.BakerPercent,
		})
	}

	result.AddDetectedCourse(ext.Course)
	result.AddDetectedCuisine(ext.Cuisine)

	if result.Name != "" {
		result.Confidence.Name = aiNameConfidence
	}
	if result.Course != "" {
		result.Confidence.Course = aiFieldConfidence
	}
	if result.Cuisine != "" {
		result.Confidence.Cuisine = aiFieldConfidence
	}
	if result.Serves != "" {
		result.Confidence.Serves = aiFieldConfidence
	}
	if result.Time != "" {
		result.Confidence.Time = aiFieldConfidence
	}
	if len(result.RawIngredients) > 0 {
		result.Confidence.Ingredients = aiListConfidence
	}
	if len(result.RawDirections) > 0 {
		result.Confidence.Directions = aiListConfidence
	}

	return result
}

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"recipe-importer/internal/core/ingest"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 結構化標記的出處信心接近滿分，鬆散推斷的欄位明顯偏低
const (
	structuredNameConfidence  = 0.95
	structuredFieldConfidence = 0.9
	inferredNameConfidence    = 0.6
	inferredListConfidence    = 0.5
	inferredFieldConfidence   = 0.3
)

// URLAdapter 網址匯入轉接器
// 先找 schema.org 的 JSON-LD Recipe 標記，沒有時退回 microdata
// 與通用選擇器的鬆散推斷
type URLAdapter struct {
	config *config.Config
	client *resty.Client
}

// NewURLAdapter 創建網址匯入轉接器
func NewURLAdapter(cfg *config.Config) *URLAdapter {
	client := resty.New().
		SetTimeout(cfg.Fetch.Timeout).
		SetHeader("User-Agent", cfg.Fetch.UserAgent)

	return &URLAdapter{
		config: cfg,
		client: client,
	}
}

// ImportFromURL 抓取網頁並解析成統一匯入結果
func (u *URLAdapter) ImportFromURL(ctx context.Context, pageURL string) (*ingest.UnifiedImportResult, error) {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("invalid url: %s", pageURL))
	}

	resp, err := u.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewAdapterError(common.AdapterErrNetwork, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode()))
	}

	body := resp.Body()
	if int64(len(body)) > u.config.Fetch.MaxBytes {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("page exceeds %d bytes", u.config.Fetch.MaxBytes))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, common.NewAdapterError(common.AdapterErrMalformed, fmt.Errorf("parse html: %w", err))
	}

	result := ParseRecipePage(doc, pageURL)

	common.LogInfo("網址匯入解析完成",
		zap.String("url", pageURL),
		zap.Int("ingredients", len(result.RawIngredients)),
		zap.Int("directions", len(result.RawDirections)),
		zap.Float64("overall", result.Confidence.Overall()),
	)

	return result, nil
}

// ParseRecipePage 解析已載入的網頁文件
// 獨立出來方便對固定 HTML 測試，不經網路
func ParseRecipePage(doc *goquery.Document, pageURL string) *ingest.UnifiedImportResult {
	result := &ingest.UnifiedImportResult{
		Source:    ingest.SourceURL,
		SourceURL: pageURL,
	}

	if node := findJSONLDRecipe(doc); node != nil {
		fillFromJSONLD(result, node)
		return result
	}

	fillFromHeuristics(result, doc)
	return result
}

// findJSONLDRecipe 在所有 ld+json script 中找第一個 Recipe 節點
func findJSONLDRecipe(doc *goquery.Document) map[string]any {
	var recipe map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return true
		}
		if node := findRecipeNode(payload); node != nil {
			recipe = node
			return false
		}
		return true
	})
	return recipe
}

// findRecipeNode 遞迴走訪 JSON-LD：頂層物件、陣列或 @graph 陣列
func findRecipeNode(v any) map[string]any {
	switch node := v.(type) {
	case map[string]any:
		if hasType(node, "Recipe") {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipeNode(graph)
		}
	case []any:
		for _, item := range node {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	}
	return nil
}

// hasType @type 可能是字串或字串陣列
func hasType(node map[string]any, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

// fillFromJSONLD 由結構化標記填入欄位，信心 0.9 起跳
func fillFromJSONLD(result *ingest.UnifiedImportResult, node map[string]any) {
	if name := stringValue(node["name"]); name != "" {
		result.Name = name
		result.Confidence.Name = structuredNameConfidence
	}

	for _, course := range stringList(node["recipeCategory"]) {
		result.AddDetectedCourse(course)
	}
	if len(result.DetectedCourses) > 0 {
		result.Course = result.DetectedCourses[0]
		result.Confidence.Course = structuredFieldConfidence
	}

	for _, cuisine := range stringList(node["recipeCuisine"]) {
		result.AddDetectedCuisine(cuisine)
	}
	if len(result.DetectedCuisines) > 0 {
		result.Cuisine = result.DetectedCuisines[0]
		result.Confidence.Cuisine = structuredFieldConfidence
	}

	if serves := stringValue(node["recipeYield"]); serves != "" {
		result.Serves = serves
		result.Confidence.Serves = structuredFieldConfidence
	}

	if raw := stringValue(node["totalTime"]); raw != "" {
		result.Time = humanizeISODuration(raw)
		result.Confidence.Time = structuredFieldConfidence
	}

	for _, line := range stringList(node["recipeIngredient"]) {
		result.RawIngredients = append(result.RawIngredients, ingredientFromText(line))
	}
	if len(result.RawIngredients) > 0 {
		result.Confidence.Ingredients = structuredFieldConfidence
	}

	result.RawDirections = instructionList(node["recipeInstructions"])
	if len(result.RawDirections) > 0 {
		result.Confidence.Directions = structuredFieldConfidence
	}

	result.ImageURL = imageURL(node["image"])
	if nutrition, ok := node["nutrition"].(map[string]any); ok {
		result.Nutrition = stringValue(nutrition["calories"])
	}
	if desc := stringValue(node["description"]); desc != "" {
		result.Notes = desc
	}
}

// fillFromHeuristics microdata 與通用選擇器的鬆散推斷，信心 0.3–0.6
func fillFromHeuristics(result *ingest.UnifiedImportResult, doc *goquery.Document) {
	name := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if name == "" {
		name = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if name != "" {
		result.Name = name
		result.Confidence.Name = inferredNameConfidence
	}

	doc.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, sel *goquery.Selection) {
		if text := common.CollapseWhitespace(sel.Text()); text != "" {
			result.RawIngredients = append(result.RawIngredients, ingredientFromText(text))
		}
	})
	if len(result.RawIngredients) == 0 {
		doc.Find(`ul[class*="ingredient"] li, div[class*="ingredient"] li`).Each(func(_ int, sel *goquery.Selection) {
			if text := common.CollapseWhitespace(sel.Text()); text != "" {
				result.RawIngredients = append(result.RawIngredients, ingredientFromText(text))
			}
		})
	}
	if len(result.RawIngredients) > 0 {
		result.Confidence.Ingredients = inferredListConfidence
	}

	doc.Find(`[itemprop="recipeInstructions"] li, [itemprop="recipeInstructions"] p`).Each(func(_ int, sel *goquery.Selection) {
		if text := common.CollapseWhitespace(sel.Text()); text != "" {
			result.RawDirections = append(result.RawDirections, text)
		}
	})
	if len(result.RawDirections) == 0 {
		doc.Find(`ol[class*="instruction"] li, ol[class*="direction"] li, div[class*="instruction"] li`).Each(func(_ int, sel *goquery.Selection) {
			if text := common.CollapseWhitespace(sel.Text()); text != "" {
				result.RawDirections = append(result.RawDirections, text)
			}
		})
	}
	if len(result.RawDirections) > 0 {
		result.Confidence.Directions = inferredListConfidence
	}

	if serves := common.CollapseWhitespace(doc.Find(`[itemprop="recipeYield"]`).First().Text()); serves != "" {
		result.Serves = serves
		result.Confidence.Serves = inferredFieldConfidence
	}
}

// ingredientFromText 把一行食材文字轉成結構化行
// 尾端帶冒號且沒有數量的行是段落標題
func ingredientFromText(line string) ingest.RawIngredientLine {
	line = common.CollapseWhitespace(line)
	if isSectionHeader(line) {
		return ingest.RawIngredientLine{
			SectionName: strings.TrimSpace(strings.TrimSuffix(line, ":")),
		}
	}
	if quantityPattern.MatchString(line) {
		return parseIngredientLine(line)
	}
	return ingest.RawIngredientLine{Name: line}
}

// stringValue 寬鬆取值：字串、數字或取陣列第一個元素
func stringValue(v any) string {
	switch value := v.(type) {
	case string:
		return common.CollapseWhitespace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case []any:
		if len(value) > 0 {
			return stringValue(value[0])
		}
	}
	return ""
}

// stringList 寬鬆取列表：單一字串視為一個元素的列表
func stringList(v any) []string {
	switch value := v.(type) {
	case string:
		if s := common.CollapseWhitespace(value); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// instructionList 作法可能是字串陣列、HowToStep 物件陣列
// 或含 itemListElement 的 HowToSection 陣列
func instructionList(v any) []string {
	switch value := v.(type) {
	case string:
		return splitInstructionText(value)
	case []any:
		var out []string
		for _, item := range value {
			switch step := item.(type) {
			case string:
				if s := common.CollapseWhitespace(step); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if text := stringValue(step["text"]); text != "" {
					out = append(out, text)
				} else if nested, ok := step["itemListElement"]; ok {
					out = append(out, instructionList(nested)...)
				}
			}
		}
		return out
	}
	return nil
}

// splitInstructionText 整段作法文字依換行或句號粗切
func splitInstructionText(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = common.CollapseWhitespace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// imageURL 圖片欄位可能是字串、陣列或帶 url 的物件
func imageURL(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []any:
		if len(value) > 0 {
			return imageURL(value[0])
		}
	case map[string]any:
		return stringValue(value["url"])
	}
	return ""
}

// classifyTransportError 將抓取階段的傳輸錯誤歸類
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		strings.Contains(err.Error(), "context deadline exceeded") ||
		strings.Contains(err.Error(), "Client.Timeout") {
		return common.NewAdapterError(common.AdapterErrTimeout, err)
	}
	return common.NewAdapterError(common.AdapterErrNetwork, err)
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// humanizeISODuration 把 ISO-8601 時長（PT1H30M）轉成可讀文字
// 不符合樣式時保留原文
func humanizeISODuration(raw string) string {
	m := isoDurationPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(raw)))
	if m == nil {
		return raw
	}

	var parts []string
	if m[1] != "" && m[1] != "0" {
		parts = append(parts, m[1]+" hr")
	}
	if m[2] != "" && m[2] != "0" {
		parts = append(parts, m[2]+" min")
	}
	if len(parts) == 0 {
		if m[3] != "" {
			return m[3] + " sec"
		}
		return raw
	}
	return strings.Join(parts, " ")
}

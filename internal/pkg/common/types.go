package common

import (
	"strings"
)

// ExtractedIngredient AI 擷取的食材行
// name 留空且 section 非空代表段落標題行
type ExtractedIngredient struct {
	Name         string `json:"name"`
	Amount       string `json:"amount,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Preparation  string `json:"preparation,omitempty"`
	Alternative  string `json:"alternative,omitempty"`
	Section      string `json:"section,omitempty"`
	BakerPercent string `json:"baker_percent,omitempty"`
}

// RecipeExtraction AI 擷取結果的回傳格式
// 欄位名稱、型別、巢狀結構都要和 prompt 中的 JSON 範例一模一樣
type RecipeExtraction struct {
	Name        string                `json:"name"`
	Course      string                `json:"course"`
	Cuisine     string                `json:"cuisine"`
	Serves      string                `json:"serves"`
	Time        string                `json:"time"`
	Ingredients []ExtractedIngredient `json:"ingredients"`
	Directions  []string              `json:"directions"`
	Equipment   []string              `json:"equipment,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Glass       string                `json:"glass,omitempty"`
	Garnish     []string              `json:"garnish,omitempty"`
}

// CollapseWhitespace 將連續空白合併為一格
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

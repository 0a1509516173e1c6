package ingest

import (
	"strings"
)

// RawIngredientLine 解析後的單一食材行
// Name 留空且 SectionName 非空時，此行是段落標題（例如「For the glaze」）
// 而不是食材；Name 與 SectionName 都為空的行是雜訊，不得進入投影器。
// 數量與單位保留原始文字，不解析成數值（來源文字太不規則，無法可靠正規化）
type RawIngredientLine struct {
	Name         string `json:"name"`
	Amount       string `json:"amount,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Preparation  string `json:"preparation,omitempty"`
	Alternative  string `json:"alternative,omitempty"`
	SectionName  string `json:"section_name,omitempty"`
	BakerPercent string `json:"baker_percent,omitempty"`
}

// CleanedName 回傳去除冒號與前後空白後的名稱
func (l RawIngredientLine) CleanedName() string {
	return strings.TrimSpace(strings.ReplaceAll(l.Name, ":", ""))
}

// IsHeader 判斷此行是否為段落標題
func (l RawIngredientLine) IsHeader() bool {
	if l.CleanedName() == "" {
		return l.SectionName != ""
	}
	// 名稱與自身段落名相同且沒有其他資料，視為重述的段落標題
	return strings.EqualFold(l.CleanedName(), strings.TrimSpace(l.SectionName)) && !l.hasData()
}

// hasData 判斷名稱以外是否帶有任何食材資料
func (l RawIngredientLine) hasData() bool {
	return l.Amount != "" || l.Unit != "" || l.Preparation != "" ||
		l.Alternative != "" || l.BakerPercent != ""
}

// isNoise 判斷此行是否為應丟棄的雜訊
func (l RawIngredientLine) isNoise() bool {
	cleaned := l.CleanedName()
	if cleaned == "" {
		return l.SectionName == ""
	}
	// 名稱等於自身段落名、卻又帶著食材資料的行是解析殘渣
	if strings.EqualFold(cleaned, strings.TrimSpace(l.SectionName)) && l.hasData() {
		return true
	}
	return false
}

// Sanitize 過濾雜訊行
// 純函數且冪等：Sanitize(Sanitize(x)) == Sanitize(x)。
// 不去重、不重排，段落標題與其下食材的相對順序具有語意，必須保留。
func Sanitize(lines []RawIngredientLine) []RawIngredientLine {
	out := make([]RawIngredientLine, 0, len(lines))
	for _, line := range lines {
		if line.isNoise() {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SectionedIngredient 帶段落標記的食材行
type SectionedIngredient struct {
	Line    RawIngredientLine
	Section string
}

// AssignSections 段落感知走訪
// 以 (目前段落, 累積列表) 的單次摺疊實現：遇到標題行時更新目前段落且不輸出；
// 其餘每行輸出時帶上行自身的段落名，若未標記則繼承最近一個標題的段落。
func AssignSections(lines []RawIngredientLine) []SectionedIngredient {
	out := make([]SectionedIngredient, 0, len(lines))
	section := ""
	for _, line := range lines {
		if line.IsHeader() {
			section = strings.TrimSpace(line.SectionName)
			continue
		}
		assigned := strings.TrimSpace(line.SectionName)
		if assigned == "" {
			assigned = section
		}
		out = append(out, SectionedIngredient{Line: line, Section: assigned})
	}
	return out
}

package project

import (
	"fmt"
	"strings"

	"recipe-importer/internal/core/ingest"

	"github.com/google/uuid"
)

// RecordKind 投影目標的封閉類別
// 在路由邊界解析一次，之後一律查表分派，不得在呼叫端比字串
type RecordKind string

const (
	KindGeneric   RecordKind = "generic"
	KindModernist RecordKind = "modernist"
	KindPizza     RecordKind = "pizza"
	KindSmoking   RecordKind = "smoking"
)

// ResolveKind 由使用者選定的課別或分類字串解析目標類別
func ResolveKind(course string) RecordKind {
	switch c := strings.ToLower(strings.TrimSpace(course)); {
	case strings.Contains(c, "pizza"):
		return KindPizza
	case strings.Contains(c, "smoking"), strings.Contains(c, "bbq"), strings.Contains(c, "barbecue"):
		return KindSmoking
	case strings.Contains(c, "modernist"):
		return KindModernist
	default:
		return KindGeneric
	}
}

// Selections 使用者在審核頁勾選保留的項目
// 索引指向過濾後列表的位置；nil 代表全部保留。
// 失效索引（使用者編輯後殘留的）一律靜默略過，絕不報錯——
// 那是介面狀態同步的殘影，不是資料完整性問題
type Selections struct {
	Ingredients []int `json:"ingredients,omitempty"`
	Directions  []int `json:"directions,omitempty"`
}

// Projector 將統一匯入結果映射為一種領域記錄的純函數
type Projector func(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) any

// projectors 類別對投影器的查表
var projectors = map[RecordKind]Projector{
	KindGeneric: func(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) any {
		return ToRecipe(res, id, sel)
	},
	KindModernist: func(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) any {
		return ToModernist(res, id, sel)
	},
	KindPizza: func(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) any {
		return ToPizza(res, id, sel)
	},
	KindSmoking: func(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) any {
		return ToSmoking(res, id, sel)
	},
}

// Project 依類別查表分派到對應的投影器
func Project(kind RecordKind, res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) (any, error) {
	projector, ok := projectors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind: %s", kind)
	}
	return projector(res, id, sel), nil
}

// selectedIngredients 共用的段落感知食材走訪
// 先過濾雜訊，再依使用者勾選保留（標題行不可勾選、一律保留以維持段落結構），
// 最後以單次摺疊標上段落
func selectedIngredients(res *ingest.UnifiedImportResult, sel Selections) []ingest.SectionedIngredient {
	sanitized := res.SanitizedIngredients()
	if sel.Ingredients == nil {
		return ingest.AssignSections(sanitized)
	}

	keep := make(map[int]bool, len(sel.Ingredients))
	for _, idx := range sel.Ingredients {
		// 超出範圍的索引靜默略過
		if idx >= 0 && idx < len(sanitized) {
			keep[idx] = true
		}
	}

	kept := make([]ingest.RawIngredientLine, 0, len(sanitized))
	for i, line := range sanitized {
		if line.IsHeader() || keep[i] {
			kept = append(kept, line)
		}
	}
	return ingest.AssignSections(kept)
}

// selectedDirections 依使用者勾選保留步驟
func selectedDirections(res *ingest.UnifiedImportResult, sel Selections) []string {
	if sel.Directions == nil {
		return trimmedDirections(res.RawDirections)
	}

	keep := make(map[int]bool, len(sel.Directions))
	for _, idx := range sel.Directions {
		// 超出範圍的索引靜默略過
		if idx >= 0 && idx < len(res.RawDirections) {
			keep[idx] = true
		}
	}

	out := make([]string, 0, len(keep))
	for i, d := range res.RawDirections {
		if !keep[i] {
			continue
		}
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func trimmedDirections(directions []string) []string {
	out := make([]string, 0, len(directions))
	for _, d := range directions {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

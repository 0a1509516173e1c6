package project

import (
	"strings"

	"recipe-importer/internal/core/ingest"

	"github.com/google/uuid"
)

// ModernistCategory 現代主義記錄的二元分類
type ModernistCategory string

const (
	ModernistConcept   ModernistCategory = "concept"
	ModernistTechnique ModernistCategory = "technique"
)

// ModernistRecipe 現代主義料理記錄
type ModernistRecipe struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Cuisine     string            `json:"cuisine,omitempty"`
	Serves      string            `json:"serves,omitempty"`
	Time        string            `json:"time,omitempty"`
	Category    ModernistCategory `json:"category"`
	Technique   string            `json:"technique,omitempty"`
	Ingredients []Ingredient      `json:"ingredients"`
	Directions  []string          `json:"directions"`
	Notes       string            `json:"notes,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	SourceURL   string            `json:"source_url,omitempty"`
}

// ToModernist 現代主義投影
// 分類預設為 concept；technique 欄位留給使用者自行填寫，
// 這條軸線的判斷刻意不做自動分類，交給人決定
func ToModernist(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) *ModernistRecipe {
	ingredients := make([]Ingredient, 0)
	for _, si := range selectedIngredients(res, sel) {
		ingredients = append(ingredients, Ingredient{
			Name:         si.Line.Name,
			Amount:       si.Line.Amount,
			Unit:         si.Line.Unit,
			Preparation:  si.Line.Preparation,
			Alternative:  si.Line.Alternative,
			Section:      si.Section,
			BakerPercent: si.Line.BakerPercent,
		})
	}

	return &ModernistRecipe{
		ID:          id.String(),
		Name:        strings.TrimSpace(res.Name),
		Cuisine:     res.Cuisine,
		Serves:      res.Serves,
		Time:        res.Time,
		Category:    ModernistConcept,
		Ingredients: ingredients,
		Directions:  selectedDirections(res, sel),
		Notes:       notesWithEquipment(res.Notes, res.Equipment),
		ImageURL:    res.ImageURL,
		SourceURL:   res.SourceURL,
	}
}

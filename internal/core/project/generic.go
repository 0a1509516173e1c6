package project

import (
	"strings"

	"recipe-importer/internal/core/ingest"

	"github.com/google/uuid"
)

// Ingredient 投影後的食材
type Ingredient struct {
	Name         string `json:"name"`
	Amount       string `json:"amount,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Preparation  string `json:"preparation,omitempty"`
	Alternative  string `json:"alternative,omitempty"`
	Section      string `json:"section,omitempty"`
	BakerPercent string `json:"baker_percent,omitempty"`
}

// Recipe 一般食譜記錄
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Course      string       `json:"course,omitempty"`
	Cuisine     string       `json:"cuisine,omitempty"`
	Serves      string       `json:"serves,omitempty"`
	Time        string       `json:"time,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Directions  []string     `json:"directions"`
	Notes       string       `json:"notes,omitempty"`
	Nutrition   string       `json:"nutrition,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	SourceURL   string       `json:"source_url,omitempty"`
	Glass       string       `json:"glass,omitempty"`
	Garnish     []string     `json:"garnish,omitempty"`
}

// ToRecipe 一般食譜投影：欄位一對一映射
// 目標型別沒有獨立的設備欄位，偵測到設備時附註在備註中
func ToRecipe(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) *Recipe {
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

	return &Recipe{
		ID:          id.String(),
		Name:        strings.TrimSpace(res.Name),
		Course:      res.Course,
		Cuisine:     res.Cuisine,
		Serves:      res.Serves,
		Time:        res.Time,
		Ingredients: ingredients,
		Directions:  selectedDirections(res, sel),
		Notes:       notesWithEquipment(res.Notes, res.Equipment),
		Nutrition:   res.Nutrition,
		ImageURL:    res.ImageURL,
		SourceURL:   res.SourceURL,
		Glass:       res.Glass,
		Garnish:     res.Garnish,
	}
}

// notesWithEquipment 將偵測到的設備附註進備註文字
func notesWithEquipment(notes string, equipment []string) string {
	if len(equipment) == 0 {
		return notes
	}
	line := "Equipment: " + strings.Join(equipment, ", ")
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}

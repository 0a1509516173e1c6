package project

import (
	"strings"

	"recipe-importer/internal/core/ingest"

	"github.com/google/uuid"
)

// PizzaBase 底醬種類
type PizzaBase string

const (
	BaseMarinara PizzaBase = "marinara"
	BasePesto    PizzaBase = "pesto"
	BaseCream    PizzaBase = "cream"
	BaseBBQ      PizzaBase = "bbq"
	BaseBuffalo  PizzaBase = "buffalo"
	BaseGarlic   PizzaBase = "garlic"
	BaseOil      PizzaBase = "oil"
)

// Topping 披薩配料
type Topping struct {
	Name    string `json:"name"`
	Amount  string `json:"amount,omitempty"`
	Unit    string `json:"unit,omitempty"`
	Section string `json:"section,omitempty"`
}

// PizzaRecipe 披薩組成記錄
type PizzaRecipe struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Serves     string    `json:"serves,omitempty"`
	Time       string    `json:"time,omitempty"`
	Base       PizzaBase `json:"base"`
	Cheeses    []Topping `json:"cheeses"`
	Proteins   []Topping `json:"proteins"`
	Vegetables []Topping `json:"vegetables"`
	Directions []string  `json:"directions"`
	Notes      string    `json:"notes,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	SourceURL  string    `json:"source_url,omitempty"`
}

// 底醬關鍵字，依優先順序排列，先命中者勝
var baseKeywords = []struct {
	base     PizzaBase
	keywords []string
}{
	{BasePesto, []string{"pesto"}},
	{BaseCream, []string{"cream", "alfredo"}},
	{BaseBBQ, []string{"bbq", "barbecue"}},
	{BaseBuffalo, []string{"buffalo"}},
}

// 配料分類關鍵字
var (
	cheeseKeywords = []string{
		"mozzarella", "parmesan", "cheddar", "provolone", "ricotta",
		"gorgonzola", "feta", "gouda", "asiago", "fontina", "pecorino",
		"burrata", "cheese",
	}
	proteinKeywords = []string{
		"pepperoni", "sausage", "bacon", "ham", "chicken", "beef",
		"pork", "salami", "prosciutto", "anchov", "meatball", "shrimp",
		"capicola", "pancetta",
	}
	// 底醬與麵團的構成成分，不屬於任何配料分類
	nonToppingKeywords = []string{
		"sauce", "marinara", "pesto", "alfredo", "bbq", "barbecue",
		"buffalo", "dough", "flour", "yeast", "oil", "butter", "water",
		"cornmeal", "semolina",
	}
)

// ToPizza 披薩投影
// 底醬以關鍵字掃描推定，配料依三組關鍵字分成起司／蛋白質／蔬菜，
// 兩者皆不命中且不是醬料或麵團成分的名稱，一律落入蔬菜
func ToPizza(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) *PizzaRecipe {
	sectioned := selectedIngredients(res, sel)

	recipe := &PizzaRecipe{
		ID:         id.String(),
		Name:       strings.TrimSpace(res.Name),
		Serves:     res.Serves,
		Time:       res.Time,
		Base:       detectBase(sectioned),
		Cheeses:    []Topping{},
		Proteins:   []Topping{},
		Vegetables: []Topping{},
		Directions: selectedDirections(res, sel),
		Notes:      notesWithEquipment(res.Notes, res.Equipment),
		ImageURL:   res.ImageURL,
		SourceURL:  res.SourceURL,
	}

	for _, si := range sectioned {
		name := strings.ToLower(si.Line.Name)
		if strings.TrimSpace(name) == "" || matchesAny(name, nonToppingKeywords) {
			continue
		}
		topping := Topping{
			Name:    si.Line.Name,
			Amount:  si.Line.Amount,
			Unit:    si.Line.Unit,
			Section: si.Section,
		}
		switch {
		case matchesAny(name, cheeseKeywords):
			recipe.Cheeses = append(recipe.Cheeses, topping)
		case matchesAny(name, proteinKeywords):
			recipe.Proteins = append(recipe.Proteins, topping)
		default:
			recipe.Vegetables = append(recipe.Vegetables, topping)
		}
	}

	return recipe
}

// detectBase 底醬推定：掃描所有食材名稱（轉小寫），先命中者勝
// 單一關鍵字組之後依序檢查 garlic+butter 組合與 oil/olive，
// 全部不中時預設 marinara
func detectBase(sectioned []ingest.SectionedIngredient) PizzaBase {
	names := make([]string, 0, len(sectioned))
	for _, si := range sectioned {
		names = append(names, strings.ToLower(si.Line.Name))
	}

	for _, name := range names {
		for _, entry := range baseKeywords {
			if matchesAny(name, entry.keywords) {
				return entry.base
			}
		}
	}

	hasGarlic, hasButter := false, false
	for _, name := range names {
		if strings.Contains(name, "garlic") {
			hasGarlic = true
		}
		if strings.Contains(name, "butter") {
			hasButter = true
		}
	}
	if hasGarlic && hasButter {
		return BaseGarlic
	}

	for _, name := range names {
		if strings.Contains(name, "oil") || strings.Contains(name, "olive") {
			return BaseOil
		}
	}

	return BaseMarinara
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

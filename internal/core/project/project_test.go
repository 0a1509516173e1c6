package project

import (
	"reflect"
	"testing"

	"recipe-importer/internal/core/ingest"

	"github.com/google/uuid"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		course string
		want   RecordKind
	}{
		{"Pizza", KindPizza},
		{"pizza night", KindPizza},
		{"Smoking", KindSmoking},
		{"BBQ", KindSmoking},
		{"Texas Barbecue", KindSmoking},
		{"Modernist", KindModernist},
		{"Main", KindGeneric},
		{"", KindGeneric},
	}
	for _, tt := range tests {
		if got := ResolveKind(tt.course); got != tt.want {
			t.Errorf("ResolveKind(%q) = %s, want %s", tt.course, got, tt.want)
		}
	}
}

func TestProjectUnknownKind(t *testing.T) {
	res := &ingest.UnifiedImportResult{Name: "X"}
	if _, err := Project(RecordKind("mystery"), res, uuid.New(), Selections{}); err == nil {
		t.Error("未知類別應回傳錯誤")
	}
}

func TestToRecipe(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name:    "Amatriciana",
		Course:  "Main",
		Cuisine: "Italian",
		Serves:  "4",
		Time:    "45 minutes",
		RawIngredients: []ingest.RawIngredientLine{
			{Name: "guanciale", Amount: "150", Unit: "g"},
			{SectionName: "Sauce"},
			{Name: "tomatoes", Amount: "400", Unit: "g", SectionName: ""},
		},
		RawDirections: []string{"Render the guanciale.", "  ", "Add the tomatoes."},
		Equipment:     []string{"large skillet", "wooden spoon"},
		Notes:         "Use bucatini if available.",
		SourceURL:     "https://example.com/amatriciana",
		Source:        ingest.SourceURL,
	}

	id := uuid.New()
	recipe := ToRecipe(res, id, Selections{})

	if recipe.ID != id.String() {
		t.Errorf("ID = %q, want %q", recipe.ID, id.String())
	}
	if recipe.Name != "Amatriciana" || recipe.Cuisine != "Italian" {
		t.Errorf("欄位映射錯誤：%+v", recipe)
	}
	// 空白步驟被剔除
	wantDirections := []string{"Render the guanciale.", "Add the tomatoes."}
	if !reflect.DeepEqual(recipe.Directions, wantDirections) {
		t.Errorf("Directions = %v, want %v", recipe.Directions, wantDirections)
	}
	// 標題行不輸出，其後的食材帶上段落
	if len(recipe.Ingredients) != 2 {
		t.Fatalf("Ingredients 數量 = %d, want 2", len(recipe.Ingredients))
	}
	if recipe.Ingredients[1].Name != "tomatoes" || recipe.Ingredients[1].Section != "Sauce" {
		t.Errorf("段落繼承錯誤：%+v", recipe.Ingredients[1])
	}
	// 設備附註進備註
	wantNotes := "Use bucatini if available.\nEquipment: large skillet, wooden spoon"
	if recipe.Notes != wantNotes {
		t.Errorf("Notes = %q, want %q", recipe.Notes, wantNotes)
	}
}

func TestToModernistDefaults(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name:          "  Spherified Olives  ",
		RawDirections: []string{"Blend the olives."},
	}
	rec := ToModernist(res, uuid.New(), Selections{})
	if rec.Name != "Spherified Olives" {
		t.Errorf("Name = %q, want 去除前後空白", rec.Name)
	}
	if rec.Category != ModernistConcept {
		t.Errorf("Category = %s, want %s", rec.Category, ModernistConcept)
	}
	if rec.Technique != "" {
		t.Errorf("Technique 應留白，got %q", rec.Technique)
	}
}

func TestDetectBase(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []string
		want        PizzaBase
	}{
		{"pesto 優先", []string{"dough", "pesto sauce", "bbq sauce"}, BasePesto},
		{"alfredo 算 cream", []string{"dough", "alfredo sauce"}, BaseCream},
		{"barbecue 算 bbq", []string{"barbecue sauce", "chicken"}, BaseBBQ},
		{"buffalo", []string{"buffalo sauce", "chicken"}, BaseBuffalo},
		{"garlic 加 butter 組合", []string{"garlic", "butter", "mozzarella"}, BaseGarlic},
		{"只有 garlic 不算 garlic base", []string{"garlic", "mozzarella"}, BaseMarinara},
		{"olive oil 算 oil", []string{"olive oil", "mozzarella"}, BaseOil},
		{"全部不中預設 marinara", []string{"mozzarella", "basil"}, BaseMarinara},
		{"空食材預設 marinara", nil, BaseMarinara},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sectioned := make([]ingest.SectionedIngredient, 0, len(tt.ingredients))
			for _, n := range tt.ingredients {
				sectioned = append(sectioned, ingest.SectionedIngredient{
					Line: ingest.RawIngredientLine{Name: n},
				})
			}
			if got := detectBase(sectioned); got != tt.want {
				t.Errorf("detectBase(%v) = %s, want %s", tt.ingredients, got, tt.want)
			}
		})
	}
}

func TestToPizza(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name:   " Margherita\n",
		Course: "Pizza",
		RawIngredients: []ingest.RawIngredientLine{
			{Name: "pizza dough", Amount: "1"},
			{Name: "marinara sauce", Amount: "1/2", Unit: "cup"},
			{Name: "fresh mozzarella", Amount: "8", Unit: "oz"},
			{Name: "basil leaves"},
			{Name: "pepperoni", Amount: "12", Unit: "slices"},
		},
		RawDirections: []string{"Stretch the dough.", "Top and bake at 500F."},
		Source:        ingest.SourceURL,
	}

	pizza := ToPizza(res, uuid.New(), Selections{})

	if pizza.Name != "Margherita" {
		t.Errorf("Name = %q, want 去除前後空白", pizza.Name)
	}
	if pizza.Base != BaseMarinara {
		t.Errorf("Base = %s, want %s", pizza.Base, BaseMarinara)
	}
	// 麵團與醬料不進配料
	if len(pizza.Cheeses) != 1 || pizza.Cheeses[0].Name != "fresh mozzarella" {
		t.Errorf("Cheeses = %+v", pizza.Cheeses)
	}
	if len(pizza.Proteins) != 1 || pizza.Proteins[0].Name != "pepperoni" {
		t.Errorf("Proteins = %+v", pizza.Proteins)
	}
	// 未分類名稱落入蔬菜
	if len(pizza.Vegetables) != 1 || pizza.Vegetables[0].Name != "basil leaves" {
		t.Errorf("Vegetables = %+v", pizza.Vegetables)
	}
}

// 帶段落的蛋白質配料保留其段落標記
func TestToPizzaSectionedProtein(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name: "Meat Lovers",
		RawIngredients: []ingest.RawIngredientLine{
			{SectionName: "Topping"},
			{Name: "Pepperoni"},
			{Name: ""}, // 雜訊行，投影前被過濾
		},
	}
	pizza := ToPizza(res, uuid.New(), Selections{})
	if len(pizza.Proteins) != 1 || pizza.Proteins[0].Name != "Pepperoni" || pizza.Proteins[0].Section != "Topping" {
		t.Errorf("Proteins = %+v, want Pepperoni in section Topping", pizza.Proteins)
	}
	if len(pizza.Cheeses) != 0 || len(pizza.Vegetables) != 0 {
		t.Errorf("雜訊行不應進入任何配料分類：%+v", pizza)
	}
}

func TestToSmoking(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name:   "Smoked Brisket",
		Course: "Smoking",
		RawIngredients: []ingest.RawIngredientLine{
			{Name: "brisket", Amount: "12", Unit: "lb"},
			{Name: "kosher salt", Amount: "1/4", Unit: "cup"},
		},
		RawDirections: []string{
			"Trim the brisket.",
			"Smoke over oak at 225°F until probe tender.",
		},
		Source: ingest.SourceOCR,
	}

	rec := ToSmoking(res, uuid.New(), Selections{})

	if rec.Wood != "Oak" {
		t.Errorf("Wood = %q, want Oak", rec.Wood)
	}
	// 溫度取原文，不改寫
	if rec.Temperature != "225°F" {
		t.Errorf("Temperature = %q, want 225°F", rec.Temperature)
	}
	if len(rec.Seasonings) != 2 || rec.Seasonings[1].Amount != "1/4 cup" {
		t.Errorf("Seasonings = %+v", rec.Seasonings)
	}
}

func TestToSmokingDefaults(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name:          " Mystery Smoke ",
		RawDirections: []string{"Smoke until done."},
	}
	rec := ToSmoking(res, uuid.New(), Selections{})
	if rec.Name != "Mystery Smoke" {
		t.Errorf("Name = %q, want 去除前後空白", rec.Name)
	}
	if rec.Wood != "Hickory" {
		t.Errorf("Wood = %q, want 預設 Hickory", rec.Wood)
	}
	if rec.Temperature != "" {
		t.Errorf("Temperature 應留白，got %q", rec.Temperature)
	}
}

func TestDetectWood(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"smoke over oak at 250F", "Oak"},
		{"use MESQUITE chunks", "Mesquite"},
		{"a handful of applewood chips", "Apple"},
		// soak 包含 oak，但不是完整單字
		{"Soak the chips in water, then smoke at 225F.", "Hickory"},
		{"smoke until tender", "Hickory"},
	}
	for _, tt := range tests {
		if got := detectWood(tt.text); got != tt.want {
			t.Errorf("detectWood(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectTemperatureVariants(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"smoke at 225°F", "225°F"},
		{"hold at 110 C for an hour", "110 C"},
		{"bake at 450F", "450F"},
		{"wait 20 minutes", ""},
	}
	for _, tt := range tests {
		if got := detectTemperature(tt.text); got != tt.want {
			t.Errorf("detectTemperature(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestSelections(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name: "Layered Cake",
		RawIngredients: []ingest.RawIngredientLine{
			{Name: "flour", Amount: "500", Unit: "g"},   // 索引 0
			{SectionName: "Frosting"},                   // 索引 1（標題，不可勾選）
			{Name: "butter", Amount: "200", Unit: "g"},  // 索引 2
			{Name: "sugar", Amount: "300", Unit: "g"},   // 索引 3
		},
		RawDirections: []string{"Mix.", "Bake.", "Frost."},
	}

	sel := Selections{
		Ingredients: []int{0, 3, 99, -1}, // 失效索引靜默略過
		Directions:  []int{2, 0},         // 勾選順序不影響輸出順序
	}
	recipe := ToRecipe(res, uuid.New(), sel)

	// butter 未勾選被剔除；標題一律保留，sugar 繼承 Frosting 段落
	wantNames := []string{"flour", "sugar"}
	gotNames := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		gotNames = append(gotNames, ing.Name)
	}
	if !reflect.DeepEqual(gotNames, wantNames) {
		t.Errorf("Ingredients = %v, want %v", gotNames, wantNames)
	}
	if recipe.Ingredients[1].Section != "Frosting" {
		t.Errorf("sugar 的段落 = %q, want Frosting", recipe.Ingredients[1].Section)
	}

	// 步驟維持原始順序
	wantDirections := []string{"Mix.", "Frost."}
	if !reflect.DeepEqual(recipe.Directions, wantDirections) {
		t.Errorf("Directions = %v, want %v", recipe.Directions, wantDirections)
	}
}

func TestSelectionsNilKeepsAll(t *testing.T) {
	res := &ingest.UnifiedImportResult{
		Name: "Everything",
		RawIngredients: []ingest.RawIngredientLine{
			{Name: "a"}, {Name: "b"},
		},
		RawDirections: []string{"One.", "Two."},
	}
	recipe := ToRecipe(res, uuid.New(), Selections{})
	if len(recipe.Ingredients) != 2 || len(recipe.Directions) != 2 {
		t.Errorf("nil 勾選應全部保留：%+v", recipe)
	}
}

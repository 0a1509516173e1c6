package project

import (
	"regexp"
	"strings"

	"recipe-importer/internal/core/ingest"

	"github.com/google/uuid"
)

// Seasoning 煙燻調味料：名稱加自由文字的份量，不做分類
type Seasoning struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

// SmokingRecipe 煙燻／BBQ 食譜記錄
type SmokingRecipe struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Serves      string      `json:"serves,omitempty"`
	Time        string      `json:"time,omitempty"`
	Wood        string      `json:"wood"`
	Temperature string      `json:"temperature,omitempty"`
	Seasonings  []Seasoning `json:"seasonings"`
	Directions  []string    `json:"directions"`
	Notes       string      `json:"notes,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	SourceURL   string      `json:"source_url,omitempty"`
}

// 常見煙燻木材，依掃描順序排列
var woodTypes = []string{
	"Hickory", "Mesquite", "Apple", "Cherry", "Oak", "Pecan",
	"Alder", "Maple", "Peach", "Walnut", "Mulberry", "Plum",
}

// 溫度樣式：兩到三位數字、可省略度數符號、華氏或攝氏
var temperaturePattern = regexp.MustCompile(`\d{2,3}\s*°?\s*[FCfc]`)

// defaultWood 沒有任何木材關鍵字命中時的預設
const defaultWood = "Hickory"

// ToSmoking 煙燻投影
// 木材與溫度從步驟加備註的合併文字推定；食材全部轉為調味料
func ToSmoking(res *ingest.UnifiedImportResult, id uuid.UUID, sel Selections) *SmokingRecipe {
	directions := selectedDirections(res, sel)
	text := strings.Join(directions, "\n") + "\n" + res.Notes

	seasonings := make([]Seasoning, 0)
	for _, si := range selectedIngredients(res, sel) {
		if strings.TrimSpace(si.Line.Name) == "" {
			continue
		}
		seasonings = append(seasonings, Seasoning{
			Name:   si.Line.Name,
			Amount: strings.TrimSpace(si.Line.Amount + " " + si.Line.Unit),
		})
	}

	return &SmokingRecipe{
		ID:          id.String(),
		Name:        strings.TrimSpace(res.Name),
		Serves:      res.Serves,
		Time:        res.Time,
		Wood:        detectWood(text),
		Temperature: detectTemperature(text),
		Seasonings:  seasonings,
		Directions:  directions,
		Notes:       notesWithEquipment(res.Notes, res.Equipment),
		ImageURL:    res.ImageURL,
		SourceURL:   res.SourceURL,
	}
}

var woodWordPattern = regexp.MustCompile(`[a-z]+`)

// detectWood 木材推定：依木材表順序找第一個命中的木材名，
// 回傳表中的標準寫法，全部不中時預設 Hickory。
// 必須以完整單字比對，子字串掃描會把 soak 誤認成 oak
func detectWood(text string) string {
	words := make(map[string]bool)
	for _, w := range woodWordPattern.FindAllString(strings.ToLower(text), -1) {
		words[w] = true
		// applewood、cherrywood 這類合成字也算命中
		if strings.HasSuffix(w, "wood") && len(w) > len("wood") {
			words[strings.TrimSuffix(w, "wood")] = true
		}
	}
	for _, wood := range woodTypes {
		if words[strings.ToLower(wood)] {
			return wood
		}
	}
	return defaultWood
}

// detectTemperature 溫度推定：取第一個命中的原文，不改寫
func detectTemperature(text string) string {
	return temperaturePattern.FindString(text)
}

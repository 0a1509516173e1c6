package adapter

import (
	"strings"
	"testing"

	"recipe-importer/internal/core/ingest"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

const jsonLDPage = `<!DOCTYPE html>
<html><head>
<title>Some Food Blog</title>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebSite", "name": "Some Food Blog"},
    {
      "@type": "Recipe",
      "name": "Classic Margherita Pizza",
      "recipeCategory": ["Pizza", "Main Course"],
      "recipeCuisine": "Italian",
      "recipeYield": "4 servings",
      "totalTime": "PT1H30M",
      "description": "A Naples classic.",
      "image": {"url": "https://example.com/pizza.jpg"},
      "nutrition": {"@type": "NutritionInformation", "calories": "270 kcal"},
      "recipeIngredient": [
        "500 g bread flour",
        "For the topping:",
        "8 oz fresh mozzarella, torn",
        "basil leaves"
      ],
      "recipeInstructions": [
        {"@type": "HowToStep", "text": "Make the dough."},
        {"@type": "HowToSection", "name": "Baking", "itemListElement": [
          {"@type": "HowToStep", "text": "Bake at 500F."}
        ]}
      ]
    }
  ]
}
</script>
</head><body><h1>Ignored Heading</h1></body></html>`

func TestParseRecipePageJSONLD(t *testing.T) {
	doc := mustDoc(t, jsonLDPage)
	result := ParseRecipePage(doc, "https://example.com/margherita")

	if result.Source != ingest.SourceURL {
		t.Errorf("Source = %s, want %s", result.Source, ingest.SourceURL)
	}
	if result.Name != "Classic Margherita Pizza" {
		t.Errorf("Name = %q", result.Name)
	}
	// 結構化標記信心接近滿分
	if result.Confidence.Name != 0.95 {
		t.Errorf("Confidence.Name = %v, want 0.95", result.Confidence.Name)
	}
	// 多個候選課別全部浮出，第一個成為預設
	if len(result.DetectedCourses) != 2 || result.Course != "Pizza" {
		t.Errorf("DetectedCourses = %v, Course = %q", result.DetectedCourses, result.Course)
	}
	if result.Cuisine != "Italian" {
		t.Errorf("Cuisine = %q", result.Cuisine)
	}
	if result.Serves != "4 servings" {
		t.Errorf("Serves = %q", result.Serves)
	}
	// ISO 時長轉為可讀文字
	if result.Time != "1 hr 30 min" {
		t.Errorf("Time = %q, want 1 hr 30 min", result.Time)
	}
	if result.Nutrition != "270 kcal" {
		t.Errorf("Nutrition = %q", result.Nutrition)
	}
	if result.ImageURL != "https://example.com/pizza.jpg" {
		t.Errorf("ImageURL = %q", result.ImageURL)
	}

	// 尾端帶冒號的行轉成段落標題
	if len(result.RawIngredients) != 4 {
		t.Fatalf("RawIngredients 數量 = %d, want 4", len(result.RawIngredients))
	}
	if !result.RawIngredients[1].IsHeader() || result.RawIngredients[1].SectionName != "For the topping" {
		t.Errorf("第 2 行應為段落標題：%+v", result.RawIngredients[1])
	}
	if result.RawIngredients[2].Name != "fresh mozzarella" || result.RawIngredients[2].Preparation != "torn" {
		t.Errorf("食材切分錯誤：%+v", result.RawIngredients[2])
	}

	// HowToSection 內層步驟被攤平
	wantDirections := []string{"Make the dough.", "Bake at 500F."}
	if len(result.RawDirections) != 2 ||
		result.RawDirections[0] != wantDirections[0] ||
		result.RawDirections[1] != wantDirections[1] {
		t.Errorf("RawDirections = %v, want %v", result.RawDirections, wantDirections)
	}
}

const microdataPage = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="Grandma's Stew">
<title>Grandma's Stew | Blog</title>
</head><body>
<h1>Grandma's Stew</h1>
<ul>
  <li itemprop="recipeIngredient">2 lbs beef chuck, cubed</li>
  <li itemprop="recipeIngredient">3 carrots</li>
</ul>
<div itemprop="recipeInstructions">
  <li>Brown the beef.</li>
  <li>Simmer for two hours.</li>
</div>
<span itemprop="recipeYield">6 servings</span>
</body></html>`

func TestParseRecipePageHeuristics(t *testing.T) {
	doc := mustDoc(t, microdataPage)
	result := ParseRecipePage(doc, "https://example.com/stew")

	if result.Name != "Grandma's Stew" {
		t.Errorf("Name = %q", result.Name)
	}
	// 鬆散推斷的信心明顯低於結構化標記
	if result.Confidence.Name != 0.6 {
		t.Errorf("Confidence.Name = %v, want 0.6", result.Confidence.Name)
	}
	if len(result.RawIngredients) != 2 {
		t.Fatalf("RawIngredients 數量 = %d, want 2", len(result.RawIngredients))
	}
	if result.RawIngredients[0].Amount != "2" || result.RawIngredients[0].Unit != "lbs" ||
		result.RawIngredients[0].Name != "beef chuck" || result.RawIngredients[0].Preparation != "cubed" {
		t.Errorf("食材切分錯誤：%+v", result.RawIngredients[0])
	}
	if len(result.RawDirections) != 2 || result.RawDirections[1] != "Simmer for two hours." {
		t.Errorf("RawDirections = %v", result.RawDirections)
	}
	if result.Serves != "6 servings" || result.Confidence.Serves != 0.3 {
		t.Errorf("Serves = %q (%v)", result.Serves, result.Confidence.Serves)
	}
	if result.Confidence.Ingredients != 0.5 || result.Confidence.Directions != 0.5 {
		t.Errorf("列表信心 = %v/%v, want 0.5/0.5",
			result.Confidence.Ingredients, result.Confidence.Directions)
	}
}

func TestParseRecipePageEmpty(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body><p>Nothing here.</p></body></html>`)
	result := ParseRecipePage(doc, "https://example.com/empty")

	if result.HasMinimumData() {
		t.Error("空白頁面不該達到資料底線")
	}
	if decision, _ := result.Route(); decision != ingest.RouteReject {
		t.Errorf("Route() = %s, want %s", decision, ingest.RouteReject)
	}
}

func TestHumanizeISODuration(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"PT1H30M", "1 hr 30 min"},
		{"PT45M", "45 min"},
		{"PT2H", "2 hr"},
		{"PT90S", "90 sec"},
		{"pt1h", "1 hr"},
		{"overnight", "overnight"}, // 不符合樣式時保留原文
		{"PT0H30M", "30 min"},
	}
	for _, tt := range tests {
		if got := humanizeISODuration(tt.raw); got != tt.want {
			t.Errorf("humanizeISODuration(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestIngredientFromText(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ingest.RawIngredientLine
	}{
		{
			"帶數量與單位",
			"2 cups flour, sifted",
			ingest.RawIngredientLine{Name: "flour", Amount: "2", Unit: "cups", Preparation: "sifted"},
		},
		{
			"尾端冒號轉段落標題",
			"For the glaze:",
			ingest.RawIngredientLine{SectionName: "For the glaze"},
		},
		{
			"沒有數量時整行是名稱",
			"Salt to taste",
			ingest.RawIngredientLine{Name: "Salt to taste"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ingredientFromText(tt.line); got != tt.want {
				t.Errorf("ingredientFromText(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

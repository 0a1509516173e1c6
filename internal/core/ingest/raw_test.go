package ingest

import (
	"reflect"
	"testing"
)

func TestCleanedName(t *testing.T) {
	tests := []struct {
		name string
		line RawIngredientLine
		want string
	}{
		{"普通名稱", RawIngredientLine{Name: "flour"}, "flour"},
		{"去除冒號", RawIngredientLine{Name: "For the glaze:"}, "For the glaze"},
		{"去除前後空白", RawIngredientLine{Name: "  butter  "}, "butter"},
		{"只剩冒號", RawIngredientLine{Name: " : "}, ""},
		{"空字串", RawIngredientLine{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.CleanedName(); got != tt.want {
				t.Errorf("CleanedName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		name string
		line RawIngredientLine
		want bool
	}{
		{
			"名稱空、段落名非空，是標題",
			RawIngredientLine{SectionName: "For the glaze"},
			true,
		},
		{
			"名稱等於段落名且無其他資料，是重述的標題",
			RawIngredientLine{Name: "Dough", SectionName: "Dough"},
			true,
		},
		{
			"名稱等於段落名但大小寫不同，仍是標題",
			RawIngredientLine{Name: "dough", SectionName: "Dough"},
			true,
		},
		{
			"名稱等於段落名卻帶著數量，不是標題",
			RawIngredientLine{Name: "Dough", SectionName: "Dough", Amount: "2"},
			false,
		},
		{
			"普通食材行不是標題",
			RawIngredientLine{Name: "flour", Amount: "2", Unit: "cups"},
			false,
		},
		{
			"名稱與段落名都空，不是標題",
			RawIngredientLine{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.IsHeader(); got != tt.want {
				t.Errorf("IsHeader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		lines []RawIngredientLine
		want  []RawIngredientLine
	}{
		{
			"丟棄名稱與段落名皆空的雜訊",
			[]RawIngredientLine{
				{Name: "flour", Amount: "2", Unit: "cups"},
				{Name: "   "},
				{Name: ":"},
				{Name: "butter", Amount: "1", Unit: "stick"},
			},
			[]RawIngredientLine{
				{Name: "flour", Amount: "2", Unit: "cups"},
				{Name: "butter", Amount: "1", Unit: "stick"},
			},
		},
		{
			"丟棄名稱等於段落名又帶資料的解析殘渣",
			[]RawIngredientLine{
				{Name: "Sauce", SectionName: "Sauce", Amount: "1"},
				{Name: "tomatoes", SectionName: "Sauce", Amount: "3"},
			},
			[]RawIngredientLine{
				{Name: "tomatoes", SectionName: "Sauce", Amount: "3"},
			},
		},
		{
			"保留段落標題行",
			[]RawIngredientLine{
				{SectionName: "For the glaze"},
				{Name: "sugar", Amount: "1", Unit: "cup"},
			},
			[]RawIngredientLine{
				{SectionName: "For the glaze"},
				{Name: "sugar", Amount: "1", Unit: "cup"},
			},
		},
		{
			"空輸入得到空輸出",
			nil,
			[]RawIngredientLine{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.lines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sanitize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Sanitize 必須冪等且保序
func TestSanitizeIdempotent(t *testing.T) {
	lines := []RawIngredientLine{
		{Name: "flour", Amount: "500", Unit: "g"},
		{Name: ""},
		{SectionName: "Topping"},
		{Name: "Topping", SectionName: "Topping", Amount: "1"},
		{Name: "cheese", SectionName: "Topping"},
	}
	once := Sanitize(lines)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Sanitize 不冪等：第一次 %+v，第二次 %+v", once, twice)
	}
	// 保序：cheese 必須仍在 Topping 標題之後
	for i, line := range once {
		if line.Name == "cheese" {
			if i == 0 || once[i-1].SectionName != "Topping" || !once[i-1].IsHeader() {
				t.Errorf("過濾後順序被破壞：%+v", once)
			}
		}
	}
}

func TestAssignSections(t *testing.T) {
	lines := []RawIngredientLine{
		{Name: "flour", Amount: "500", Unit: "g"},
		{SectionName: "For the glaze"},
		{Name: "sugar", Amount: "1", Unit: "cup"},
		{Name: "milk", Amount: "2", Unit: "tbsp"},
		{SectionName: "Topping"},
		{Name: "almonds"},
		{Name: "cherries", SectionName: "Decoration"},
	}
	got := AssignSections(lines)

	want := []struct {
		name    string
		section string
	}{
		{"flour", ""},          // 標題之前的行沒有段落
		{"sugar", "For the glaze"},
		{"milk", "For the glaze"},
		{"almonds", "Topping"}, // 繼承最近的標題
		{"cherries", "Decoration"}, // 自帶段落名優先於繼承
	}
	if len(got) != len(want) {
		t.Fatalf("AssignSections() 輸出 %d 行, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Line.Name != w.name || got[i].Section != w.section {
			t.Errorf("第 %d 行 = (%q, %q), want (%q, %q)",
				i, got[i].Line.Name, got[i].Section, w.name, w.section)
		}
	}
}

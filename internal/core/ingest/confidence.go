package ingest

// 信心政策常數
// 數值來自實際觀察到的使用情境，視為固定政策而非設定值
const (
	// 欄位標籤門檻
	goodThreshold   = 0.7
	reviewThreshold = 0.4

	// 整體信心等級（僅供顯示的文字分級）
	highBandThreshold   = 0.8
	mediumBandThreshold = 0.5

	// 路由審核門檻：低於此值的匯入一律送人工審核
	// 刻意比「低信心」等級寬鬆，中等信心的匯入仍需人眼確認
	reviewGateThreshold = 0.8
)

// ConfidenceField 信心分數對應的語意欄位
type ConfidenceField string

const (
	FieldName        ConfidenceField = "name"
	FieldCourse      ConfidenceField = "course"
	FieldCuisine     ConfidenceField = "cuisine"
	FieldServes      ConfidenceField = "serves"
	FieldTime        ConfidenceField = "time"
	FieldIngredients ConfidenceField = "ingredients"
	FieldDirections  ConfidenceField = "directions"
)

// confidenceFields 欄位宣告順序，決定回報順序
var confidenceFields = []ConfidenceField{
	FieldName,
	FieldCourse,
	FieldCuisine,
	FieldServes,
	FieldTime,
	FieldIngredients,
	FieldDirections,
}

// optionalFields 允許留白的欄位，低分時不催促使用者補填
var optionalFields = map[ConfidenceField]bool{
	FieldCuisine: true,
	FieldServes:  true,
	FieldTime:    true,
}

// fieldDisplayNames 欄位的顯示名稱
var fieldDisplayNames = map[ConfidenceField]string{
	FieldName:        "Name",
	FieldCourse:      "Course",
	FieldCuisine:     "Cuisine",
	FieldServes:      "Serves",
	FieldTime:        "Time",
	FieldIngredients: "Ingredients",
	FieldDirections:  "Directions",
}

// ConfidenceLabel 單一欄位的信心標籤
type ConfidenceLabel string

const (
	LabelGood       ConfidenceLabel = "good"
	LabelReview     ConfidenceLabel = "review"
	LabelOptional   ConfidenceLabel = "optional"
	LabelNeedsInput ConfidenceLabel = "needs_input"
)

// ImportConfidence 每個語意欄位的信心分數，值域 [0.0, 1.0]
// 分數由來源出處決定（結構化標記接近 1.0，OCR 偏低，LLM 中等），
// 引擎只彙整既有分數，絕不替未標記的欄位發明數值（未標記即為 0）
type ImportConfidence struct {
	Name        float64 `json:"name"`
	Course      float64 `json:"course"`
	Cuisine     float64 `json:"cuisine"`
	Serves      float64 `json:"serves"`
	Time        float64 `json:"time"`
	Ingredients float64 `json:"ingredients"`
	Directions  float64 `json:"directions"`
}

// Score 取得單一欄位的分數
func (c ImportConfidence) Score(field ConfidenceField) float64 {
	switch field {
	case FieldName:
		return c.Name
	case FieldCourse:
		return c.Course
	case FieldCuisine:
		return c.Cuisine
	case FieldServes:
		return c.Serves
	case FieldTime:
		return c.Time
	case FieldIngredients:
		return c.Ingredients
	case FieldDirections:
		return c.Directions
	}
	return 0
}

// Overall 整體信心分數：所有宣告欄位的算術平均
// 從未被任何來源填入的欄位以 0 計入，會拉低平均——這是刻意的：
// 什麼都沒找到的匯入不該看起來信心十足
func (c ImportConfidence) Overall() float64 {
	sum := 0.0
	for _, field := range confidenceFields {
		sum += c.Score(field)
	}
	return sum / float64(len(confidenceFields))
}

// LabelFor 依分數與欄位性質導出標籤
func LabelFor(field ConfidenceField, score float64) ConfidenceLabel {
	switch {
	case score >= goodThreshold:
		return LabelGood
	case score >= reviewThreshold:
		return LabelReview
	case optionalFields[field]:
		return LabelOptional
	default:
		return LabelNeedsInput
	}
}

// FieldsNeedingAttention 回報需要人工留意的必填欄位顯示名稱
// 只含標籤為 review 或 needs_input 的必填欄位，依欄位宣告順序輸出，
// 順序穩定可重現
func (c ImportConfidence) FieldsNeedingAttention() []string {
	out := []string{}
	for _, field := range confidenceFields {
		if optionalFields[field] {
			continue
		}
		label := LabelFor(field, c.Score(field))
		if label == LabelReview || label == LabelNeedsInput {
			out = append(out, fieldDisplayNames[field])
		}
	}
	return out
}

// Band 整體信心的文字分級，僅供顯示，不是路由依據
func Band(score float64) string {
	switch {
	case score >= highBandThreshold:
		return "high"
	case score >= mediumBandThreshold:
		return "medium"
	default:
		return "low"
	}
}

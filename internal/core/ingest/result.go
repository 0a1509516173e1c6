package ingest

import (
	"strings"

	"recipe-importer/internal/pkg/common"
)

// ImportSource 匯入來源，封閉枚舉
// 路由政策以明確分支消費（source == ocr），不做隱式字串比對
type ImportSource string

const (
	SourceURL ImportSource = "url"
	SourceOCR ImportSource = "ocr"
	SourceAI  ImportSource = "ai"
)

// RouteDecision 匯入的路由決策，於路由邊界解析一次
type RouteDecision string

const (
	// RouteReject 資料不足，直接拒絕（錯誤，不是審核）
	RouteReject RouteDecision = "reject"
	// RouteReview 送人工審核頁，使用者可勾選保留項目並修正欄位
	RouteReview RouteDecision = "review"
	// RouteDirect 信心足夠，直接帶入可編輯的記錄頁
	RouteDirect RouteDecision = "direct"
)

// UnifiedImportResult 各來源轉接器共同產出的標準中介結果
// 生命週期：由轉接器建構一次，審核期間可由使用者修改副本，
// 最後被投影器消費一次以產生領域記錄，之後即丟棄
type UnifiedImportResult struct {
	Name           string              `json:"name"`
	Course         string              `json:"course"`
	Cuisine        string              `json:"cuisine"`
	Serves         string              `json:"serves"`
	Time           string              `json:"time"`
	RawIngredients []RawIngredientLine `json:"raw_ingredients"`
	RawDirections  []string            `json:"raw_directions"`
	Equipment      []string            `json:"equipment,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Nutrition      string              `json:"nutrition,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
	ImagePaths     []string            `json:"image_paths,omitempty"`
	SourceURL      string              `json:"source_url,omitempty"`
	Source         ImportSource        `json:"source"`

	// 飲品專用欄位
	Glass   string   `json:"glass,omitempty"`
	Garnish []string `json:"garnish,omitempty"`

	// 轉接器不確定時浮出的多個候選
	DetectedCourses  []string `json:"detected_courses,omitempty"`
	DetectedCuisines []string `json:"detected_cuisines,omitempty"`

	Confidence ImportConfidence `json:"confidence"`
}

// AddDetectedCourse 加入候選課別，維持插入順序並去重
func (r *UnifiedImportResult) AddDetectedCourse(course string) {
	r.DetectedCourses = appendUnique(r.DetectedCourses, course)
}

// AddDetectedCuisine 加入候選菜系，維持插入順序並去重
func (r *UnifiedImportResult) AddDetectedCuisine(cuisine string) {
	r.DetectedCuisines = appendUnique(r.DetectedCuisines, cuisine)
}

func appendUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}

// SanitizedIngredients 回傳過濾雜訊後的食材行
func (r *UnifiedImportResult) SanitizedIngredients() []RawIngredientLine {
	return Sanitize(r.RawIngredients)
}

// HasMinimumData 硬性底線：可用的名稱，加上至少一筆過濾後的食材或一筆步驟
// 低於底線的匯入沒有任何值得給人看的內容，直接以錯誤拒絕
func (r *UnifiedImportResult) HasMinimumData() bool {
	if strings.TrimSpace(r.Name) == "" {
		return false
	}
	for _, line := range r.SanitizedIngredients() {
		if !line.IsHeader() {
			return true
		}
	}
	for _, d := range r.RawDirections {
		if strings.TrimSpace(d) != "" {
			return true
		}
	}
	return false
}

// NeedsUserReview 判斷是否需要人工審核
// 整體信心低於審核門檻，或來源為 OCR（OCR 的信心分數結構性不可靠，
// 無論分數多高一律送審核）
func (r *UnifiedImportResult) NeedsUserReview() bool {
	if r.Source == SourceOCR {
		return true
	}
	return r.Confidence.Overall() < reviewGateThreshold
}

// Route 路由決策表
// 資料不足 ⇒ 拒絕（短路，不評估審核條件）；
// 資料足夠且需審核 ⇒ 審核頁；否則直接帶入記錄頁
func (r *UnifiedImportResult) Route() (RouteDecision, error) {
	if !r.HasMinimumData() {
		return RouteReject, common.ErrInsufficientData
	}
	if r.NeedsUserReview() {
		return RouteReview, nil
	}
	return RouteDirect, nil
}

package ingest

import (
	"math"
	"reflect"
	"testing"
)

func TestOverall(t *testing.T) {
	tests := []struct {
		name string
		conf ImportConfidence
		want float64
	}{
		{"全零", ImportConfidence{}, 0},
		{"全滿", ImportConfidence{1, 1, 1, 1, 1, 1, 1}, 1},
		{
			"未填欄位以零計入並拉低平均",
			ImportConfidence{Name: 0.7},
			0.1,
		},
		{
			"一般混合",
			ImportConfidence{Name: 0.9, Course: 0.9, Cuisine: 0.9, Serves: 0.9, Time: 0.9, Ingredients: 0.9, Directions: 0.2},
			0.8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Overall(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Overall() = %v, want %v", got, tt.want)
			}
		})
	}
}

// 任一欄位分數上升時，整體分數不得下降
func TestOverallMonotonic(t *testing.T) {
	base := ImportConfidence{Name: 0.3, Ingredients: 0.5}
	raised := base
	raised.Directions = 0.6
	if raised.Overall() <= base.Overall() {
		t.Errorf("提高單一欄位後整體分數未上升：%v -> %v", base.Overall(), raised.Overall())
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		name  string
		field ConfidenceField
		score float64
		want  ConfidenceLabel
	}{
		{"高分為 good", FieldName, 0.9, LabelGood},
		{"門檻值恰好為 good", FieldName, 0.7, LabelGood},
		{"中段為 review", FieldName, 0.5, LabelReview},
		{"門檻值恰好為 review", FieldName, 0.4, LabelReview},
		{"必填欄位低分為 needs_input", FieldName, 0.2, LabelNeedsInput},
		{"選填欄位低分為 optional", FieldCuisine, 0.2, LabelOptional},
		{"選填欄位零分為 optional", FieldServes, 0, LabelOptional},
		{"選填欄位高分仍為 good", FieldTime, 0.8, LabelGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelFor(tt.field, tt.score); got != tt.want {
				t.Errorf("LabelFor(%s, %v) = %s, want %s", tt.field, tt.score, got, tt.want)
			}
		})
	}
}

func TestFieldsNeedingAttention(t *testing.T) {
	tests := []struct {
		name string
		conf ImportConfidence
		want []string
	}{
		{
			"全零時只回報必填欄位，依宣告順序",
			ImportConfidence{},
			[]string{"Name", "Course", "Ingredients", "Directions"},
		},
		{
			"高分欄位不回報",
			ImportConfidence{Name: 0.95, Course: 0.5, Ingredients: 0.9, Directions: 0.9},
			[]string{"Course"},
		},
		{
			"選填欄位低分不回報",
			ImportConfidence{Name: 0.9, Course: 0.9, Cuisine: 0.1, Serves: 0, Time: 0.3, Ingredients: 0.9, Directions: 0.9},
			[]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.conf.FieldsNeedingAttention()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FieldsNeedingAttention() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, "high"},
		{0.8, "high"},
		{0.79, "medium"},
		{0.5, "medium"},
		{0.49, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := Band(tt.score); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

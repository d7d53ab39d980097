package analysis

import (
	"strings"
	"testing"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

func successInput(black, total int, percentage float64) models.PixelCountResult {
	return models.PixelCountResult{
		Status:          models.StatusSuccess,
		BlackPixelCount: black,
		TotalPixels:     total,
		BlackPercentage: percentage,
		ThresholdUsed:   30,
	}
}

func TestCategorize_Boundaries(t *testing.T) {
	testCases := []struct {
		percentage float64
		expected   string
	}{
		{0, models.CategoryVeryLight},
		{4.99, models.CategoryVeryLight},
		{5, models.CategoryLight}, // boundary belongs to the darker bucket
		{14.99, models.CategoryLight},
		{15, models.CategoryMedium},
		{29.99, models.CategoryMedium},
		{30, models.CategoryDark},
		{49.99, models.CategoryDark},
		{50, models.CategoryVeryDark},
		{100, models.CategoryVeryDark},
	}

	for _, tc := range testCases {
		if got := Categorize(tc.percentage); got != tc.expected {
			t.Errorf("Categorize(%v) = %q, want %q", tc.percentage, got, tc.expected)
		}
	}
}

func TestAnalyze_Derivations(t *testing.T) {
	a := New()

	result, err := a.Analyze(successInput(2500, 10000, 25), 10)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Status != models.StatusSuccess {
		t.Errorf("Expected success status, got %q", result.Status)
	}
	if result.WhitePixels != 7500 {
		t.Errorf("Expected 7500 white pixels, got %d", result.WhitePixels)
	}
	if result.WhitePixels+result.InputData.BlackPixelCount != result.InputData.TotalPixels {
		t.Error("white_pixels + black_pixel_count must equal total_pixels")
	}
	if result.WhitePercentage != 75 {
		t.Errorf("Expected white_percentage 75, got %f", result.WhitePercentage)
	}
	if sum := result.WhitePercentage + result.InputData.BlackPercentage; sum < 99.99 || sum > 100.01 {
		t.Errorf("white + black percentage should be 100 (+-0.01), got %f", sum)
	}
	if result.DarknessRatio != 0.3333 {
		t.Errorf("Expected darkness ratio 0.3333, got %f", result.DarknessRatio)
	}
	if result.DarknessCategory != models.CategoryMedium {
		t.Errorf("Expected medium category, got %q", result.DarknessCategory)
	}
	if !result.IsDarkEnough {
		t.Error("25%% black should meet a 10%% darkness threshold")
	}
	if result.Metadata.Timestamp == "" || result.Metadata.AnalysisMethod == "" {
		t.Error("Expected metadata timestamp and method to be set")
	}
}

func TestAnalyze_DarknessThresholdInclusive(t *testing.T) {
	a := New()

	result, err := a.Analyze(successInput(1000, 10000, 10), 10)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !result.IsDarkEnough {
		t.Error("black_percentage exactly at the threshold must count as dark enough")
	}

	result, err = a.Analyze(successInput(999, 10000, 9.99), 10)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.IsDarkEnough {
		t.Error("9.99%% should not meet a 10%% darkness threshold")
	}
}

func TestAnalyze_EntirelyDarkImage(t *testing.T) {
	a := New()

	// No white pixels: the ratio denominator is floored at 1.
	result, err := a.Analyze(successInput(10000, 10000, 100), 10)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.WhitePixels != 0 {
		t.Errorf("Expected 0 white pixels, got %d", result.WhitePixels)
	}
	if result.DarknessRatio != 10000 {
		t.Errorf("Expected darkness ratio 10000, got %f", result.DarknessRatio)
	}
	if result.DarknessCategory != models.CategoryVeryDark {
		t.Errorf("Expected very_dark, got %q", result.DarknessCategory)
	}
}

func TestAnalyze_Summary(t *testing.T) {
	a := New()

	result, err := a.Analyze(successInput(2500, 10000, 25), 10)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	for _, want := range []string{"medium", "25.00%", "2500 of 10000", "met"} {
		if !strings.Contains(result.Summary, want) {
			t.Errorf("Summary %q missing %q", result.Summary, want)
		}
	}

	result, err = a.Analyze(successInput(100, 10000, 1), 10)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !strings.Contains(result.Summary, "not met") {
		t.Errorf("Summary %q should carry the not-met clause", result.Summary)
	}
}

func TestAnalyze_RejectsBadInput(t *testing.T) {
	a := New()

	testCases := []struct {
		name     string
		input    models.PixelCountResult
		wantType apperrors.ErrorType
	}{
		{
			name:     "Upstream error status",
			input:    models.PixelCountResult{Status: models.StatusError},
			wantType: apperrors.ErrorTypeUpstream,
		},
		{
			name:     "Zero total pixels",
			input:    models.PixelCountResult{Status: models.StatusSuccess},
			wantType: apperrors.ErrorTypeDecode,
		},
		{
			name:     "Count exceeds total",
			input:    successInput(11, 10, 110),
			wantType: apperrors.ErrorTypeDecode,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Analyze(tc.input, 10)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !apperrors.IsType(err, tc.wantType) {
				t.Errorf("Expected %s error, got %v", tc.wantType, err)
			}
		})
	}
}

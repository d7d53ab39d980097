package report

import (
	"encoding/json"
	"math"
	"testing"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

func successAnalysis(blackPercentage float64) models.AnalysisResult {
	return models.AnalysisResult{
		Status:            models.StatusSuccess,
		SchemaVersion:     models.SchemaVersion,
		DarknessCategory:  "medium",
		DarknessThreshold: 10,
		InputData: models.AnalysisInput{
			BlackPixelCount: int(blackPercentage * 100),
			TotalPixels:     10000,
			BlackPercentage: blackPercentage,
		},
	}
}

func TestCategorize_Bands(t *testing.T) {
	testCases := []struct {
		score     float64
		threshold float64
		expected  string
	}{
		{60, 50, models.QualityHigh},
		{50, 50, models.QualityHigh}, // High band is inclusive at the threshold
		{49.99, 50, models.QualityMedium},
		{35, 50, models.QualityMedium},
		{30, 50, models.QualityMedium}, // Medium starts at 0.6 * threshold
		{29.99, 50, models.QualityLow},
		{10, 50, models.QualityLow},
		// Both bands move with the threshold
		{79, 80, models.QualityMedium},
		{48, 80, models.QualityMedium},
		{47.99, 80, models.QualityLow},
	}

	for _, tc := range testCases {
		if got := Categorize(tc.score, tc.threshold); got != tc.expected {
			t.Errorf("Categorize(%v, %v) = %q, want %q", tc.score, tc.threshold, got, tc.expected)
		}
	}
}

func TestGenerate_ScoreComplementsBlackPercentage(t *testing.T) {
	g := New()

	for _, percentage := range []float64{0, 12.34, 50, 99.99, 100} {
		result, err := g.Generate(successAnalysis(percentage), nil, models.DefaultReportParams())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if diff := math.Abs(result.QualityScore + percentage - 100); diff > 0.01 {
			t.Errorf("quality_score %f + black_percentage %f should be 100 (+-0.01)",
				result.QualityScore, percentage)
		}
	}
}

func TestGenerate_Recommendations(t *testing.T) {
	g := New()

	testCases := []struct {
		name            string
		blackPercentage float64
		expectCategory  string
		expectCount     int
	}{
		{"Low quality gets three", 80, models.QualityLow, 3},
		{"Medium quality gets two", 60, models.QualityMedium, 2},
		{"High quality gets two", 10, models.QualityHigh, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := g.Generate(successAnalysis(tc.blackPercentage), nil, models.DefaultReportParams())
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if result.QualityCategory != tc.expectCategory {
				t.Errorf("Expected category %q, got %q", tc.expectCategory, result.QualityCategory)
			}
			if len(result.Recommendations) != tc.expectCount {
				t.Errorf("Expected %d recommendations, got %d", tc.expectCount, len(result.Recommendations))
			}
		})
	}
}

func TestGenerate_RecommendationsDisabled(t *testing.T) {
	g := New()

	params := models.DefaultReportParams()
	params.IncludeRecommendations = false

	result, err := g.Generate(successAnalysis(80), nil, params)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Recommendations == nil {
		t.Error("Expected an empty sequence, not null")
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %d", len(result.Recommendations))
	}
}

func TestGenerate_Metadata(t *testing.T) {
	g := New()

	result, err := g.Generate(successAnalysis(25), nil, models.DefaultReportParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Metadata.PipelineStages != models.PipelineStages {
		t.Errorf("Expected pipeline stage marker %d, got %d",
			models.PipelineStages, result.Metadata.PipelineStages)
	}
	if result.Metadata.GeneratedAt == "" || result.Metadata.ReportID == "" {
		t.Error("Expected generation timestamp and report id to be set")
	}
	if result.Thresholds.DarknessThreshold != 10 {
		t.Errorf("Expected the analyzer's darkness_threshold to be echoed, got %f",
			result.Thresholds.DarknessThreshold)
	}
}

func TestGenerate_SourceAnalysisVerbatim(t *testing.T) {
	g := New()

	// Extra fields must survive untouched in source_analysis.
	source := models.RawDocument(`{"status":"success","darkness_threshold":10,"custom_field":"kept","input_data":{"black_percentage":25,"black_pixel_count":2500,"total_pixels":10000}}`)

	result, err := g.Generate(successAnalysis(25), source, models.DefaultReportParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded struct {
		SourceAnalysis map[string]any `json:"source_analysis"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.SourceAnalysis["custom_field"] != "kept" {
		t.Error("source_analysis must carry the consumed document verbatim")
	}
}

func TestGenerate_FailsFastOnUpstreamError(t *testing.T) {
	g := New()

	_, err := g.Generate(models.AnalysisResult{Status: models.StatusError}, nil, models.DefaultReportParams())
	if err == nil {
		t.Fatal("Expected an error for a failed upstream analysis")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeUpstream) {
		t.Errorf("Expected an upstream error, got %v", err)
	}
}

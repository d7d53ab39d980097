package analysis

import (
	"fmt"
	"math"
	"time"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

// analysisMethod is the fixed method name recorded in result metadata.
const analysisMethod = "black_pixel_analysis"

// Category breakpoints on black_percentage. Half-open ascending buckets; a
// value exactly at a breakpoint belongs to the darker bucket.
const (
	veryLightLimit = 5.0
	lightLimit     = 15.0
	mediumLimit    = 30.0
	darkLimit      = 50.0
)

// Analyzer classifies a pixel count result into a darkness bucket
type Analyzer interface {
	Analyze(input models.PixelCountResult, darknessThreshold float64) (models.AnalysisResult, error)
}

type analyzer struct{}

// New creates a darkness analyzer
func New() Analyzer {
	return &analyzer{}
}

// Analyze derives the darkness classification and ratios from an upstream
// pixel count. The darkness threshold comparison is inclusive.
func (a *analyzer) Analyze(input models.PixelCountResult, darknessThreshold float64) (models.AnalysisResult, error) {
	if input.Status != models.StatusSuccess {
		return models.AnalysisResult{}, apperrors.NewUpstreamError("pixel count input is not a success result", nil)
	}
	if input.TotalPixels <= 0 {
		return models.AnalysisResult{}, apperrors.NewDecodeError("pixel count input has no pixels", nil)
	}
	if input.BlackPixelCount < 0 || input.BlackPixelCount > input.TotalPixels {
		return models.AnalysisResult{}, apperrors.NewDecodeError(
			fmt.Sprintf("black_pixel_count %d is outside [0, %d]", input.BlackPixelCount, input.TotalPixels), nil)
	}

	whitePixels := input.TotalPixels - input.BlackPixelCount
	whitePercentage := round2(100 - input.BlackPercentage)

	// Denominator floored at 1 so an entirely dark image stays finite.
	ratioDenom := whitePixels
	if ratioDenom < 1 {
		ratioDenom = 1
	}
	darknessRatio := round4(float64(input.BlackPixelCount) / float64(ratioDenom))

	isDarkEnough := input.BlackPercentage >= darknessThreshold
	category := Categorize(input.BlackPercentage)

	return models.AnalysisResult{
		Status:            models.StatusSuccess,
		SchemaVersion:     models.SchemaVersion,
		DarknessCategory:  category,
		IsDarkEnough:      isDarkEnough,
		DarknessThreshold: darknessThreshold,
		DarknessRatio:     darknessRatio,
		WhitePercentage:   whitePercentage,
		WhitePixels:       whitePixels,
		Summary:           summarize(input, category, darknessThreshold, isDarkEnough),
		InputData: models.AnalysisInput{
			BlackPixelCount: input.BlackPixelCount,
			TotalPixels:     input.TotalPixels,
			BlackPercentage: input.BlackPercentage,
			ThresholdUsed:   input.ThresholdUsed,
		},
		Metadata: models.AnalysisMetadata{
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			AnalysisMethod: analysisMethod,
		},
	}, nil
}

// Categorize maps a black-pixel percentage to its darkness bucket.
func Categorize(blackPercentage float64) string {
	switch {
	case blackPercentage < veryLightLimit:
		return models.CategoryVeryLight
	case blackPercentage < lightLimit:
		return models.CategoryLight
	case blackPercentage < mediumLimit:
		return models.CategoryMedium
	case blackPercentage < darkLimit:
		return models.CategoryDark
	default:
		return models.CategoryVeryDark
	}
}

// summarize renders the fixed-template summary sentence.
func summarize(input models.PixelCountResult, category string, threshold float64, met bool) string {
	clause := "not met"
	if met {
		clause = "met"
	}
	return fmt.Sprintf("Image is %s: %.2f%% black pixels (%d of %d); darkness threshold of %.1f%% %s.",
		category, input.BlackPercentage, input.BlackPixelCount, input.TotalPixels, threshold, clause)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

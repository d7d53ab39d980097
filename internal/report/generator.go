package report

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

// Fixed recommendation lists keyed by quality category. Order matters; the
// report emits them verbatim.
var recommendations = map[string][]string{
	models.QualityLow: {
		"Recapture the image with more ambient light",
		"Increase the capture device exposure or brightness setting",
		"Check the lens or scanner glass for dirt and obstructions",
	},
	models.QualityMedium: {
		"Consider a brighter light source for better contrast",
		"Review the pixel threshold if dark regions are expected content",
	},
	models.QualityHigh: {
		"No corrective action needed",
		"Keep the current capture settings for future runs",
	},
}

// Generator produces the final quality report from an analysis result
type Generator interface {
	Generate(analysis models.AnalysisResult, source models.RawDocument, params models.ReportParams) (models.ReportResult, error)
}

type generator struct{}

// New creates a report generator
func New() Generator {
	return &generator{}
}

// Generate derives the quality score and category and assembles the report.
// The upstream analysis must be a success result; anything else fails fast.
// source is the consumed analysis document, preserved verbatim; when nil,
// the typed analysis is re-encoded in its place.
func (g *generator) Generate(analysis models.AnalysisResult, source models.RawDocument, params models.ReportParams) (models.ReportResult, error) {
	if analysis.Status != models.StatusSuccess {
		return models.ReportResult{}, apperrors.NewUpstreamError("analysis input is not a success result", nil)
	}

	score := round2(100 - analysis.InputData.BlackPercentage)
	category := Categorize(score, params.QualityThreshold)

	recs := []string{}
	if params.IncludeRecommendations {
		recs = append(recs, recommendations[category]...)
	}

	if source == nil {
		encoded, err := json.Marshal(analysis)
		if err != nil {
			return models.ReportResult{}, apperrors.NewInternalError("failed to encode source analysis", err)
		}
		source = encoded
	}

	return models.ReportResult{
		Status:          models.StatusSuccess,
		SchemaVersion:   models.SchemaVersion,
		QualityScore:    score,
		QualityCategory: category,
		Recommendations: recs,
		Thresholds: models.ReportThresholds{
			DarknessThreshold: analysis.DarknessThreshold,
			QualityThreshold:  params.QualityThreshold,
		},
		Metadata: models.ReportMetadata{
			GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
			ReportID:       uuid.NewString(),
			PipelineStages: models.PipelineStages,
		},
		SourceAnalysis: source,
	}, nil
}

// Categorize maps a quality score to its band. High starts at the quality
// threshold; Medium starts at MediumBandRatio times the threshold, so both
// bands move together when the threshold changes.
func Categorize(score, qualityThreshold float64) string {
	switch {
	case score >= qualityThreshold:
		return models.QualityHigh
	case score >= models.MediumBandRatio*qualityThreshold:
		return models.QualityMedium
	default:
		return models.QualityLow
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

package models

// Stage parameter defaults. Each stage falls back to these when its params
// document omits the key.
const (
	// DefaultPixelThreshold is the grayscale intensity below which a pixel
	// counts as black. Accepted as-is even outside 0-255.
	DefaultPixelThreshold = 30

	// DefaultDarknessThreshold is the black-pixel percentage at or above
	// which an image is flagged dark enough.
	DefaultDarknessThreshold = 10.0

	// DefaultQualityThreshold is the score separating the High band from
	// the rest.
	DefaultQualityThreshold = 50.0

	// DefaultIncludeRecommendations controls whether reports carry the
	// per-category recommendation list.
	DefaultIncludeRecommendations = true
)

// MediumBandRatio fixes the lower bound of the Medium quality band relative
// to the quality threshold: Medium starts at MediumBandRatio *
// quality_threshold, so both bands move together when the threshold changes.
const MediumBandRatio = 0.6

// PipelineStages is the fixed depth of the count -> analyze -> report chain,
// asserted in report metadata.
const PipelineStages = 3

// CountParams configures the pixel counting stage.
type CountParams struct {
	Threshold int `json:"threshold"`
}

// AnalyzeParams configures the darkness analysis stage.
type AnalyzeParams struct {
	DarknessThreshold float64 `json:"darkness_threshold"`
}

// ReportParams configures the report generation stage.
type ReportParams struct {
	IncludeRecommendations bool    `json:"include_recommendations"`
	QualityThreshold       float64 `json:"quality_threshold"`
}

// DefaultCountParams returns the documented stage 1 defaults.
func DefaultCountParams() CountParams {
	return CountParams{Threshold: DefaultPixelThreshold}
}

// DefaultAnalyzeParams returns the documented stage 2 defaults.
func DefaultAnalyzeParams() AnalyzeParams {
	return AnalyzeParams{DarknessThreshold: DefaultDarknessThreshold}
}

// DefaultReportParams returns the documented stage 3 defaults.
func DefaultReportParams() ReportParams {
	return ReportParams{
		IncludeRecommendations: DefaultIncludeRecommendations,
		QualityThreshold:       DefaultQualityThreshold,
	}
}

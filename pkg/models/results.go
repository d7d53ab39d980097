package models

// SchemaVersion is the version of the JSON documents the pipeline stages
// exchange. Every ingestion point checks it; an absent version is treated
// as version 1 for documents produced by the legacy script.
const SchemaVersion = 1

// Stage result status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Darkness categories, ordered from lightest to darkest. They partition the
// black-pixel percentage range [0,100] at the breakpoints 5, 15, 30 and 50;
// a percentage exactly at a breakpoint belongs to the darker bucket.
const (
	CategoryVeryLight = "very_light"
	CategoryLight     = "light"
	CategoryMedium    = "medium"
	CategoryDark      = "dark"
	CategoryVeryDark  = "very_dark"
)

// Quality categories derived from the quality score.
const (
	QualityLow    = "Low"
	QualityMedium = "Medium"
	QualityHigh   = "High"
)

// PixelCountResult is the output document of the pixel counting stage.
type PixelCountResult struct {
	Status          string  `json:"status"`
	SchemaVersion   int     `json:"schema_version"`
	BlackPixelCount int     `json:"black_pixel_count"`
	TotalPixels     int     `json:"total_pixels"`
	BlackPercentage float64 `json:"black_percentage"`
	ThresholdUsed   int     `json:"threshold_used"`
	OriginalFile    string  `json:"original_file"`

	// Histogram statistics over the grayscale samples.
	MeanIntensity   float64 `json:"mean_intensity"`
	IntensityStddev float64 `json:"intensity_stddev"`

	ParametersApplied *CountParams `json:"parameters_applied,omitempty"`
}

// AnalysisInput echoes the upstream numeric fields the analyzer consumed.
type AnalysisInput struct {
	BlackPixelCount int     `json:"black_pixel_count"`
	TotalPixels     int     `json:"total_pixels"`
	BlackPercentage float64 `json:"black_percentage"`
	ThresholdUsed   int     `json:"threshold_used"`
}

// AnalysisMetadata carries provenance for an analysis result.
type AnalysisMetadata struct {
	Timestamp      string `json:"timestamp"`
	AnalysisMethod string `json:"analysis_method"`
}

// AnalysisResult is the output document of the darkness analysis stage.
type AnalysisResult struct {
	Status            string           `json:"status"`
	SchemaVersion     int              `json:"schema_version"`
	DarknessCategory  string           `json:"darkness_category"`
	IsDarkEnough      bool             `json:"is_dark_enough"`
	DarknessThreshold float64          `json:"darkness_threshold"`
	DarknessRatio     float64          `json:"darkness_ratio"`
	WhitePercentage   float64          `json:"white_percentage"`
	WhitePixels       int              `json:"white_pixels"`
	Summary           string           `json:"summary"`
	InputData         AnalysisInput    `json:"input_data"`
	Metadata          AnalysisMetadata `json:"metadata"`

	ParametersApplied *AnalyzeParams `json:"parameters_applied,omitempty"`
}

// ReportThresholds groups the thresholds that shaped a report. The darkness
// threshold is read from the field the analyzer actually emits
// (darkness_threshold).
type ReportThresholds struct {
	DarknessThreshold float64 `json:"darkness_threshold"`
	QualityThreshold  float64 `json:"quality_threshold"`
}

// ReportMetadata carries provenance for a generated report.
type ReportMetadata struct {
	GeneratedAt    string `json:"generated_at"`
	ReportID       string `json:"report_id"`
	PipelineStages int    `json:"pipeline_stages"`
}

// ReportResult is the output document of the report generation stage.
// SourceAnalysis preserves the consumed analysis document verbatim.
type ReportResult struct {
	Status          string           `json:"status"`
	SchemaVersion   int              `json:"schema_version"`
	QualityScore    float64          `json:"quality_score"`
	QualityCategory string           `json:"quality_category"`
	Recommendations []string         `json:"recommendations"`
	Thresholds      ReportThresholds `json:"thresholds"`
	Metadata        ReportMetadata   `json:"metadata"`
	SourceAnalysis  RawDocument      `json:"source_analysis"`

	ParametersApplied *ReportParams `json:"parameters_applied,omitempty"`
}

// RawDocument is a verbatim JSON document carried through without re-encoding.
type RawDocument []byte

// MarshalJSON emits the document bytes as-is.
func (d RawDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores a copy of the document bytes.
func (d *RawDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// ErrorResult is the uniform failure envelope every stage produces instead
// of aborting. It deliberately carries no numeric fields.
type ErrorResult struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// NewErrorResult wraps an error into the failure envelope.
func NewErrorResult(err error) ErrorResult {
	return ErrorResult{
		Status: StatusError,
		Error:  err.Error(),
	}
}

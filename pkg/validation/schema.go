package validation

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

// Document is a decoded JSON object inspected field by field at a stage
// ingestion point. Field access converts missing or mistyped values into
// decode errors instead of letting them surface as zero values.
type Document map[string]any

// Parse decodes a JSON object from raw bytes.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewDecodeError("malformed JSON document", err)
	}
	if doc == nil {
		return nil, apperrors.NewDecodeError("JSON document is not an object", nil)
	}
	return doc, nil
}

// Status returns the status field, or an empty string if absent.
func (d Document) Status() string {
	s, _ := d["status"].(string)
	return s
}

// ErrorMessage returns the error field of a failed upstream document.
func (d Document) ErrorMessage() string {
	if msg, ok := d["error"].(string); ok && msg != "" {
		return msg
	}
	// Legacy producers used a message field for usage errors.
	if msg, ok := d["message"].(string); ok && msg != "" {
		return msg
	}
	return "upstream stage reported an error"
}

// Number extracts a required numeric field.
func (d Document) Number(key string) (float64, error) {
	v, ok := d[key]
	if !ok {
		return 0, apperrors.NewDecodeError(fmt.Sprintf("required field %q is missing", key), nil)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, apperrors.NewDecodeError(fmt.Sprintf("field %q is not numeric", key), nil)
	}
	return f, nil
}

// Int extracts a required integral numeric field.
func (d Document) Int(key string) (int, error) {
	f, err := d.Number(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, apperrors.NewDecodeError(fmt.Sprintf("field %q is not an integer", key), nil)
	}
	return int(f), nil
}

// OptionalString extracts a string field, defaulting to empty when absent.
func (d Document) OptionalString(key string) string {
	s, _ := d[key].(string)
	return s
}

// Object extracts a required nested object field.
func (d Document) Object(key string) (Document, error) {
	v, ok := d[key]
	if !ok {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("required field %q is missing", key), nil)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("field %q is not an object", key), nil)
	}
	return Document(m), nil
}

// CheckSchemaVersion validates the document schema version. An absent
// version is accepted for documents from the legacy producer; a mismatched
// one is rejected.
func (d Document) CheckSchemaVersion() error {
	v, ok := d["schema_version"]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return apperrors.NewDecodeError("schema_version is not an integer", nil)
	}
	if int(f) != models.SchemaVersion {
		return apperrors.NewDecodeError(
			fmt.Sprintf("unsupported schema_version %d (want %d)", int(f), models.SchemaVersion), nil)
	}
	return nil
}

// checkStatus rejects documents without a status and converts upstream
// failures into upstream errors.
func (d Document) checkStatus() error {
	switch d.Status() {
	case models.StatusSuccess:
		return nil
	case models.StatusError:
		return apperrors.NewUpstreamError(
			fmt.Sprintf("upstream stage failed: %s", d.ErrorMessage()), nil)
	default:
		return apperrors.NewDecodeError("document has no valid status field", nil)
	}
}

// PixelCountFromDocument validates a pixel count document at the analyzer's
// ingestion point and converts it into the typed result.
func PixelCountFromDocument(d Document) (models.PixelCountResult, error) {
	var out models.PixelCountResult

	if err := d.checkStatus(); err != nil {
		return out, err
	}
	if err := d.CheckSchemaVersion(); err != nil {
		return out, err
	}

	black, err := d.Int("black_pixel_count")
	if err != nil {
		return out, err
	}
	total, err := d.Int("total_pixels")
	if err != nil {
		return out, err
	}
	percentage, err := d.Number("black_percentage")
	if err != nil {
		return out, err
	}
	threshold, err := d.Int("threshold_used")
	if err != nil {
		return out, err
	}

	if black < 0 || total < 0 {
		return out, apperrors.NewDecodeError("pixel counts must not be negative", nil)
	}
	if black > total {
		return out, apperrors.NewDecodeError(
			fmt.Sprintf("black_pixel_count %d exceeds total_pixels %d", black, total), nil)
	}

	out = models.PixelCountResult{
		Status:          models.StatusSuccess,
		SchemaVersion:   models.SchemaVersion,
		BlackPixelCount: black,
		TotalPixels:     total,
		BlackPercentage: percentage,
		ThresholdUsed:   threshold,
		OriginalFile:    d.OptionalString("original_file"),
	}
	return out, nil
}

// AnalysisFromDocument validates an analysis document at the report
// generator's ingestion point and converts it into the typed result.
func AnalysisFromDocument(d Document) (models.AnalysisResult, error) {
	var out models.AnalysisResult

	if err := d.checkStatus(); err != nil {
		return out, err
	}
	if err := d.CheckSchemaVersion(); err != nil {
		return out, err
	}

	darknessThreshold, err := d.Number("darkness_threshold")
	if err != nil {
		return out, err
	}

	input, err := d.Object("input_data")
	if err != nil {
		return out, err
	}
	percentage, err := input.Number("black_percentage")
	if err != nil {
		return out, err
	}
	black, err := input.Int("black_pixel_count")
	if err != nil {
		return out, err
	}
	total, err := input.Int("total_pixels")
	if err != nil {
		return out, err
	}

	category, ok := d["darkness_category"].(string)
	if !ok {
		return out, apperrors.NewDecodeError("required field \"darkness_category\" is missing", nil)
	}

	out = models.AnalysisResult{
		Status:            models.StatusSuccess,
		SchemaVersion:     models.SchemaVersion,
		DarknessCategory:  category,
		DarknessThreshold: darknessThreshold,
		InputData: models.AnalysisInput{
			BlackPixelCount: black,
			TotalPixels:     total,
			BlackPercentage: percentage,
		},
	}
	if v, ok := d["is_dark_enough"].(bool); ok {
		out.IsDarkEnough = v
	}
	out.Summary = d.OptionalString("summary")
	return out, nil
}

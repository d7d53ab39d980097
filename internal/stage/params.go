package stage

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/arbovm/levenshtein"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/internal/logger"
	"go-darkness-grader/pkg/models"
)

// Recognized parameter keys per stage. Anything else in a params document is
// ignored with a warning.
var (
	countParamKeys   = []string{"threshold"}
	analyzeParamKeys = []string{"darkness_threshold"}
	reportParamKeys  = []string{"include_recommendations", "quality_threshold"}
)

// Suggestions further than this edit distance are noise.
const maxSuggestionDistance = 3

// ParseCountParams decodes stage 1 parameters, falling back to the
// documented defaults for missing keys.
func ParseCountParams(data []byte) (models.CountParams, error) {
	params := models.DefaultCountParams()

	doc, err := decodeParams(StageCount, data, countParamKeys)
	if err != nil {
		return params, err
	}
	if params.Threshold, err = intParam(doc, "threshold", params.Threshold); err != nil {
		return params, err
	}
	return params, nil
}

// ParseAnalyzeParams decodes stage 2 parameters.
func ParseAnalyzeParams(data []byte) (models.AnalyzeParams, error) {
	params := models.DefaultAnalyzeParams()

	doc, err := decodeParams(StageAnalyze, data, analyzeParamKeys)
	if err != nil {
		return params, err
	}
	if params.DarknessThreshold, err = numberParam(doc, "darkness_threshold", params.DarknessThreshold); err != nil {
		return params, err
	}
	return params, nil
}

// ParseReportParams decodes stage 3 parameters.
func ParseReportParams(data []byte) (models.ReportParams, error) {
	params := models.DefaultReportParams()

	doc, err := decodeParams(StageReport, data, reportParamKeys)
	if err != nil {
		return params, err
	}
	if params.QualityThreshold, err = numberParam(doc, "quality_threshold", params.QualityThreshold); err != nil {
		return params, err
	}
	if params.IncludeRecommendations, err = boolParam(doc, "include_recommendations", params.IncludeRecommendations); err != nil {
		return params, err
	}
	return params, nil
}

func decodeParams(stage string, data []byte, known []string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewDecodeError("error loading parameters", err)
	}
	if doc == nil {
		return nil, apperrors.NewDecodeError("parameters document is not a JSON object", nil)
	}

	for key := range doc {
		if !containsKey(known, key) {
			warnUnknownKey(stage, key, known)
		}
	}
	return doc, nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func warnUnknownKey(stage, key string, known []string) {
	entry := logger.WithStage(stage).WithField("key", key)
	if suggestion, ok := nearestKey(key, known); ok {
		entry = entry.WithField("did_you_mean", suggestion)
	}
	entry.Warn("Ignoring unrecognized parameter")
}

func nearestKey(key string, known []string) (string, bool) {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, k := range known {
		if d := levenshtein.Distance(key, k); d < bestDistance {
			best, bestDistance = k, d
		}
	}
	return best, best != ""
}

func numberParam(doc map[string]any, key string, fallback float64) (float64, error) {
	v, ok := doc[key]
	if !ok {
		return fallback, nil
	}
	f, ok := v.(float64)
	if !ok {
		return fallback, apperrors.NewDecodeError(fmt.Sprintf("parameter %q is not numeric", key), nil)
	}
	return f, nil
}

func intParam(doc map[string]any, key string, fallback int) (int, error) {
	v, ok := doc[key]
	if !ok {
		return fallback, nil
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return fallback, apperrors.NewDecodeError(fmt.Sprintf("parameter %q is not an integer", key), nil)
	}
	return int(f), nil
}

func boolParam(doc map[string]any, key string, fallback bool) (bool, error) {
	v, ok := doc[key]
	if !ok {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return fallback, apperrors.NewDecodeError(fmt.Sprintf("parameter %q is not a boolean", key), nil)
	}
	return b, nil
}

package stage

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"time"

	"go-darkness-grader/internal/analysis"
	"go-darkness-grader/internal/counter"
	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/internal/observer"
	"go-darkness-grader/internal/report"
	"go-darkness-grader/internal/storage"
	"go-darkness-grader/pkg/models"
	"go-darkness-grader/pkg/validation"
)

// Stage names used in logs and observer events.
const (
	StageCount   = "pixel_count"
	StageAnalyze = "darkness_analysis"
	StageReport  = "report_generation"
)

// Runner is the tolerant boundary around the three stage functions. Every
// Run method returns a well-formed document: the stage's success result or
// the uniform error envelope, never a raised error.
type Runner struct {
	counter   counter.PixelCounter
	analyzer  analysis.Analyzer
	generator report.Generator
	sources   *storage.Resolver
	validator *validation.SourceValidator
	observers *observer.Registry
}

// NewRunner wires a stage runner
func NewRunner(
	pixelCounter counter.PixelCounter,
	darknessAnalyzer analysis.Analyzer,
	reportGenerator report.Generator,
	sources *storage.Resolver,
	observers *observer.Registry,
) *Runner {
	return &Runner{
		counter:   pixelCounter,
		analyzer:  darknessAnalyzer,
		generator: reportGenerator,
		sources:   sources,
		validator: validation.NewSourceValidator(),
		observers: observers,
	}
}

// CountSource runs the pixel counting stage against a source reference.
func (r *Runner) CountSource(ctx context.Context, source string, params models.CountParams) any {
	start := time.Now()
	result, err := r.countSource(ctx, source, params)
	return r.finish(StageCount, start, result, err)
}

// AnalyzePayload runs the darkness analysis stage against an upstream pixel
// count document.
func (r *Runner) AnalyzePayload(data []byte, params models.AnalyzeParams) any {
	start := time.Now()
	result, err := r.analyzePayload(data, params)
	return r.finish(StageAnalyze, start, result, err)
}

// ReportPayload runs the report generation stage against an upstream
// analysis document.
func (r *Runner) ReportPayload(data []byte, params models.ReportParams) any {
	start := time.Now()
	result, err := r.reportPayload(data, params)
	return r.finish(StageReport, start, result, err)
}

// RunCountFile runs the pixel counting stage with file-based inputs: an
// image reference and a JSON parameters file.
func (r *Runner) RunCountFile(ctx context.Context, inputRef, paramsPath string) any {
	start := time.Now()
	result, err := r.runCountFile(ctx, inputRef, paramsPath)
	return r.finish(StageCount, start, result, err)
}

// RunAnalyzeFile runs the darkness analysis stage with file-based inputs.
func (r *Runner) RunAnalyzeFile(inputPath, paramsPath string) any {
	start := time.Now()
	result, err := r.runAnalyzeFile(inputPath, paramsPath)
	return r.finish(StageAnalyze, start, result, err)
}

// RunReportFile runs the report generation stage with file-based inputs.
func (r *Runner) RunReportFile(inputPath, paramsPath string) any {
	start := time.Now()
	result, err := r.runReportFile(inputPath, paramsPath)
	return r.finish(StageReport, start, result, err)
}

func (r *Runner) countSource(ctx context.Context, source string, params models.CountParams) (models.PixelCountResult, error) {
	var zero models.PixelCountResult

	if err := r.validator.ValidateSource(source); err != nil {
		return zero, err
	}
	src, err := r.sources.ForRef(source)
	if err != nil {
		return zero, err
	}
	img, err := src.Fetch(ctx, source)
	if err != nil {
		return zero, err
	}

	result, err := r.counter.Count(img, params.Threshold, source)
	if err != nil {
		return zero, err
	}
	result.ParametersApplied = &params
	return result, nil
}

func (r *Runner) analyzePayload(data []byte, params models.AnalyzeParams) (models.AnalysisResult, error) {
	var zero models.AnalysisResult

	doc, err := validation.Parse(data)
	if err != nil {
		return zero, err
	}
	input, err := validation.PixelCountFromDocument(doc)
	if err != nil {
		return zero, err
	}

	result, err := r.analyzer.Analyze(input, params.DarknessThreshold)
	if err != nil {
		return zero, err
	}
	result.ParametersApplied = &params
	return result, nil
}

func (r *Runner) reportPayload(data []byte, params models.ReportParams) (models.ReportResult, error) {
	var zero models.ReportResult

	doc, err := validation.Parse(data)
	if err != nil {
		return zero, err
	}
	source, err := validation.AnalysisFromDocument(doc)
	if err != nil {
		return zero, err
	}

	result, err := r.generator.Generate(source, models.RawDocument(data), params)
	if err != nil {
		return zero, err
	}
	result.ParametersApplied = &params
	return result, nil
}

func (r *Runner) runCountFile(ctx context.Context, inputRef, paramsPath string) (models.PixelCountResult, error) {
	var zero models.PixelCountResult

	if err := ensureLocalInput(inputRef); err != nil {
		return zero, err
	}
	params, err := r.loadCountParams(paramsPath)
	if err != nil {
		return zero, err
	}
	return r.countSource(ctx, inputRef, params)
}

func (r *Runner) runAnalyzeFile(inputPath, paramsPath string) (models.AnalysisResult, error) {
	var zero models.AnalysisResult

	data, err := readInputFile(inputPath)
	if err != nil {
		return zero, err
	}
	raw, err := readParamsFile(paramsPath)
	if err != nil {
		return zero, err
	}
	params, err := ParseAnalyzeParams(raw)
	if err != nil {
		return zero, err
	}
	return r.analyzePayload(data, params)
}

func (r *Runner) runReportFile(inputPath, paramsPath string) (models.ReportResult, error) {
	var zero models.ReportResult

	data, err := readInputFile(inputPath)
	if err != nil {
		return zero, err
	}
	raw, err := readParamsFile(paramsPath)
	if err != nil {
		return zero, err
	}
	params, err := ParseReportParams(raw)
	if err != nil {
		return zero, err
	}
	return r.reportPayload(data, params)
}

func (r *Runner) loadCountParams(paramsPath string) (models.CountParams, error) {
	raw, err := readParamsFile(paramsPath)
	if err != nil {
		return models.CountParams{}, err
	}
	return ParseCountParams(raw)
}

// finish converts the stage outcome into its wire document and notifies
// observers. This is the single point where errors become data.
func (r *Runner) finish(stage string, start time.Time, result any, err error) any {
	event := observer.StageEvent{
		Stage:     stage,
		Timestamp: start,
		Duration:  time.Since(start),
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
		r.observers.Notify(event)
		return models.NewErrorResult(err)
	}
	r.observers.Notify(event)
	return result
}

// ensureLocalInput pre-checks existence for local inputs so a missing file
// is reported as an I/O failure before parameters are even read. Remote
// references are checked by their sources at fetch time.
func ensureLocalInput(ref string) error {
	if parsed, err := url.Parse(ref); err == nil && len(parsed.Scheme) > 1 {
		return nil
	}
	if _, err := os.Stat(ref); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NewIOError("input file "+ref+" does not exist", err)
		}
		return apperrors.NewIOError("failed to access input file "+ref, err)
	}
	return nil
}

func readInputFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewIOError("input file "+path+" does not exist", err)
		}
		return nil, apperrors.NewIOError("failed to read input file "+path, err)
	}
	return data, nil
}

func readParamsFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewIOError("parameters file "+path+" does not exist", err)
		}
		return nil, apperrors.NewIOError("failed to read parameters file "+path, err)
	}
	return data, nil
}

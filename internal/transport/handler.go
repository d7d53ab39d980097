package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-darkness-grader/internal/config"
	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/internal/logger"
	"go-darkness-grader/internal/stage"
	"go-darkness-grader/pkg/models"
)

// CountRequest asks for a pixel count of a single image source.
type CountRequest struct {
	Source    string `json:"source" binding:"required"`
	Threshold *int   `json:"threshold,omitempty"`
}

// AnalyzeRequest asks for a darkness analysis of an upstream count document.
type AnalyzeRequest struct {
	InputData         json.RawMessage `json:"input_data" binding:"required"`
	DarknessThreshold *float64        `json:"darkness_threshold,omitempty"`
}

// ReportRequest asks for a quality report of an upstream analysis document.
type ReportRequest struct {
	Analysis               json.RawMessage `json:"analysis" binding:"required"`
	QualityThreshold       *float64        `json:"quality_threshold,omitempty"`
	IncludeRecommendations *bool           `json:"include_recommendations,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the HTTP surface over the stage runner. Stage failures
// are payload data with status=error, delivered with HTTP 200; only
// malformed requests get a non-200.
func NewHandler(runner *stage.Runner, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/analyze/pixel-count", countPixels(runner, cfg))
	r.POST("/analyze/darkness", analyzeDarkness(runner))
	r.POST("/analyze/report", generateReport(runner))

	return r
}

func countPixels(runner *stage.Runner, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.ImageFetchTimeout)
		defer cancel()

		var req CountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		params := models.DefaultCountParams()
		if req.Threshold != nil {
			params.Threshold = *req.Threshold
		}

		logger.WithStage(stage.StageCount).WithFields(logrus.Fields{
			"source":    req.Source,
			"threshold": params.Threshold,
			"ip":        c.ClientIP(),
		}).Info("Processing pixel count request")

		c.JSON(http.StatusOK, runner.CountSource(ctx, req.Source, params))
	}
}

func analyzeDarkness(runner *stage.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		params := models.DefaultAnalyzeParams()
		if req.DarknessThreshold != nil {
			params.DarknessThreshold = *req.DarknessThreshold
		}

		logger.WithStage(stage.StageAnalyze).WithFields(logrus.Fields{
			"darkness_threshold": params.DarknessThreshold,
			"ip":                 c.ClientIP(),
		}).Info("Processing darkness analysis request")

		c.JSON(http.StatusOK, runner.AnalyzePayload(req.InputData, params))
	}
}

func generateReport(runner *stage.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		params := models.DefaultReportParams()
		if req.QualityThreshold != nil {
			params.QualityThreshold = *req.QualityThreshold
		}
		if req.IncludeRecommendations != nil {
			params.IncludeRecommendations = *req.IncludeRecommendations
		}

		logger.WithStage(stage.StageReport).WithFields(logrus.Fields{
			"quality_threshold": params.QualityThreshold,
			"ip":                c.ClientIP(),
		}).Info("Processing report request")

		c.JSON(http.StatusOK, runner.ReportPayload(req.Analysis, params))
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, apperrors.GetStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}

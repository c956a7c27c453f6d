package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"library-acquisition/backend/internal/analysis"
	"library-acquisition/backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxBooksPerAnalysis bounds the size of a single acquisition list
const MaxBooksPerAnalysis = 200

// Analyzer is the analysis operation the handlers depend on
type Analyzer interface {
	Analyze(ctx context.Context, books []model.Book) (*analysis.AnalysisResult, error)
	Ready() bool
}

// AnalysisRequest is the body of POST /api/analysis
type AnalysisRequest struct {
	Books []model.Book `json:"books" binding:"required,min=1,dive"`
}

// Handler serves the analysis API
type Handler struct {
	analyzer Analyzer
}

// New creates a Handler
func New(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// HandleAnalyze runs one acquisition analysis for the posted book list
func (h *Handler) HandleAnalyze(c *gin.Context) {
	startTime := time.Now()

	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": invalidRequestMessage(err),
			"code":  "INVALID_REQUEST",
		})
		return
	}
	if len(req.Books) > MaxBooksPerAnalysis {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Too many books in one analysis (max %d)", MaxBooksPerAnalysis),
			"code":  "INVALID_REQUEST",
		})
		return
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)

	logger := log.With().Str("request_id", requestID).Logger()
	ctx := logger.WithContext(c.Request.Context())

	result, err := h.analyzer.Analyze(ctx, req.Books)
	duration := time.Since(startTime)
	if err != nil {
		status, code := failureStatus(err)
		logger.Warn().Dur("duration", duration).Int("status", status).Str("code", code).Msg("analysis request failed")
		c.JSON(status, gin.H{
			"error": analysis.FailureMessage,
			"code":  code,
		})
		return
	}

	logger.Info().Dur("duration", duration).Int("books", len(req.Books)).Msg("analysis request completed")
	c.JSON(http.StatusOK, result)
}

// failureStatus maps the failure kind to an HTTP status and error code
func failureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrMissingCredential):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, analysis.ErrRateLimited):
		return http.StatusTooManyRequests, "GEMINI_RATE_LIMITED"
	default:
		return http.StatusBadGateway, "ANALYSIS_FAILED"
	}
}

func invalidRequestMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "'min'"), strings.Contains(msg, "'required'"):
		return "Invalid request: at least one book is required"
	case strings.Contains(msg, "'gte'"):
		return "Invalid request: prices must not be negative"
	default:
		return "Invalid request body"
	}
}

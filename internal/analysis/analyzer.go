package analysis

import (
	"context"
	"errors"
	"strings"

	"library-acquisition/backend/internal/analysis/deps"
	"library-acquisition/backend/internal/analysis/prompt"
	"library-acquisition/backend/internal/analysis/response"
	"library-acquisition/backend/internal/model"

	"github.com/rs/zerolog"
)

// DefaultModel is the Gemini model used for list analysis
const DefaultModel = "gemini-2.5-flash"

// AnalysisResult is the validated assessment (re-exported for handler compatibility)
type AnalysisResult = response.AnalysisResult

// Config holds the explicit settings of an Analyzer
type Config struct {
	APIKey   string
	Model    string
	Language string
}

// Analyzer turns an acquisition list into one AnalysisResult via a single generation call.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	apiKey        string
	model         string
	generator     deps.Generator
	promptBuilder *prompt.Builder
	logger        zerolog.Logger
}

// New creates an Analyzer. generator may be nil when no credential is configured;
// Analyze then fails before reaching it.
func New(cfg Config, generator deps.Generator, logger zerolog.Logger) *Analyzer {
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Analyzer{
		apiKey:        strings.TrimSpace(cfg.APIKey),
		model:         modelName,
		generator:     generator,
		promptBuilder: prompt.NewBuilder(cfg.Language),
		logger:        logger,
	}
}

// NewGemini creates an Analyzer backed by the Gemini API
func NewGemini(ctx context.Context, cfg Config, logger zerolog.Logger) (*Analyzer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return New(cfg, nil, logger), nil
	}
	generator, err := NewGeminiGenerator(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return New(cfg, generator, logger), nil
}

// Ready reports whether a credential is configured
func (a *Analyzer) Ready() bool {
	return a.apiKey != "" && a.generator != nil
}

// Model returns the model identifier requests are sent to
func (a *Analyzer) Model() string {
	return a.model
}

// Analyze sends the projected book list to the model and returns the parsed result.
// Every failure is returned as *Error matching ErrAnalysisFailed.
func (a *Analyzer) Analyze(ctx context.Context, books []model.Book) (*AnalysisResult, error) {
	logger := a.loggerFor(ctx)

	if !a.Ready() {
		return nil, a.fail(logger, &Error{Kind: ErrMissingCredential}, ErrMissingCredential)
	}

	analysisPrompt, err := a.promptBuilder.BuildAnalysisPrompt(books)
	if err != nil {
		return nil, a.fail(logger, &Error{Kind: ErrInvalidRequest}, err)
	}

	logger.Debug().
		Int("books", len(books)).
		Str("model", a.model).
		Int("promptChars", len(analysisPrompt)).
		Msg("requesting acquisition analysis")

	text, err := a.generator.Generate(ctx, deps.GenerateRequest{
		Model:             a.model,
		SystemInstruction: a.promptBuilder.BuildSystemInstruction(),
		Prompt:            analysisPrompt,
		ResponseSchema:    prompt.AnalysisSchema(),
	})
	if err != nil {
		return nil, a.fail(logger, classifyTransportError(ctx, err), err)
	}

	result, err := response.Parse(text)
	if err != nil {
		kind := ErrMalformedResponse
		if errors.Is(err, response.ErrEmpty) {
			kind = ErrEmptyResponse
		}
		logger.Debug().Str("response", truncateForLog(text, 500)).Msg("rejected analysis response")
		return nil, a.fail(logger, &Error{Kind: kind}, err)
	}

	logger.Info().
		Int("books", len(books)).
		Float64("recommendationScore", result.RecommendationScore).
		Msg("acquisition analysis completed")

	return result, nil
}

// fail records the original cause and returns the uniform error
func (a *Analyzer) fail(logger *zerolog.Logger, failure *Error, cause error) error {
	logger.Error().
		Err(cause).
		Str("kind", failure.Kind.Error()).
		Str("model", a.model).
		Msg("gemini analysis failed")
	return failure
}

// loggerFor prefers a request-scoped logger carried on ctx
func (a *Analyzer) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.logger
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}

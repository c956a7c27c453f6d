package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// JSON field names of an analysis object
const (
	FieldSummary             = "summary"
	FieldBudgetAnalysis      = "budgetAnalysis"
	FieldCategoryBreakdown   = "categoryBreakdown"
	FieldRecommendationScore = "recommendationScore"
)

// Score bounds for recommendationScore
const (
	MinScore = 0
	MaxScore = 100
)

var (
	// ErrEmpty is returned when the model produced no text
	ErrEmpty = errors.New("empty response text")
	// ErrMalformed is returned when the text is not a valid analysis object
	ErrMalformed = errors.New("malformed analysis response")
)

// AnalysisResult is the structured assessment of an acquisition list
type AnalysisResult struct {
	Summary             string  `json:"summary"`
	BudgetAnalysis      string  `json:"budgetAnalysis"`
	CategoryBreakdown   string  `json:"categoryBreakdown"`
	RecommendationScore float64 `json:"recommendationScore"`
}

// rawResult distinguishes absent fields from zero values
type rawResult struct {
	Summary             *string  `json:"summary"`
	BudgetAnalysis      *string  `json:"budgetAnalysis"`
	CategoryBreakdown   *string  `json:"categoryBreakdown"`
	RecommendationScore *float64 `json:"recommendationScore"`
}

// Parse decodes and validates the model's JSON text
func Parse(text string) (*AnalysisResult, error) {
	cleaned := cleanJSONResponse(text)
	if cleaned == "" {
		return nil, ErrEmpty
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return &AnalysisResult{
		Summary:             strings.TrimSpace(*raw.Summary),
		BudgetAnalysis:      strings.TrimSpace(*raw.BudgetAnalysis),
		CategoryBreakdown:   strings.TrimSpace(*raw.CategoryBreakdown),
		RecommendationScore: *raw.RecommendationScore,
	}, nil
}

func validate(raw rawResult) error {
	var errs []error
	requireText := func(name string, value *string) {
		if value == nil {
			errs = append(errs, fmt.Errorf("missing field %q", name))
			return
		}
		if strings.TrimSpace(*value) == "" {
			errs = append(errs, fmt.Errorf("field %q is empty", name))
		}
	}

	requireText(FieldSummary, raw.Summary)
	requireText(FieldBudgetAnalysis, raw.BudgetAnalysis)
	requireText(FieldCategoryBreakdown, raw.CategoryBreakdown)

	switch score := raw.RecommendationScore; {
	case score == nil:
		errs = append(errs, fmt.Errorf("missing field %q", FieldRecommendationScore))
	case math.IsNaN(*score) || math.IsInf(*score, 0):
		errs = append(errs, fmt.Errorf("%s is not finite", FieldRecommendationScore))
	case *score < MinScore || *score > MaxScore:
		errs = append(errs, fmt.Errorf("%s %v outside [%d, %d]", FieldRecommendationScore, *score, MinScore, MaxScore))
	}

	return errors.Join(errs...)
}

// cleanJSONResponse strips markdown code fences the model sometimes wraps JSON in
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

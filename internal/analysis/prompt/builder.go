package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"library-acquisition/backend/internal/analysis/response"
	"library-acquisition/backend/internal/analysis/sanitize"
	"library-acquisition/backend/internal/model"

	"google.golang.org/genai"
)

// Projection is the reduced per-book record sent to the model
type Projection struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
}

// Builder constructs analysis prompts
type Builder struct {
	language string
}

// NewBuilder creates a prompt builder that asks for responses in the given language
func NewBuilder(language string) *Builder {
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}
	return &Builder{language: language}
}

// BuildSystemInstruction returns the librarian role directive
func (b *Builder) BuildSystemInstruction() string {
	return SystemInstruction
}

// BuildAnalysisPrompt embeds the projected book list into the analysis instruction
func (b *Builder) BuildAnalysisPrompt(books []model.Book) (string, error) {
	encoded, err := EncodeProjections(Project(books))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(fmt.Sprintf(analysisPromptTemplate, encoded, b.language)), nil
}

// Project maps every book to its projection, preserving order
func Project(books []model.Book) []Projection {
	projections := make([]Projection, 0, len(books))
	for _, book := range books {
		category := sanitize.Field(book.CategoryName)
		if category == "" {
			category = UnknownCategory
		}
		projections = append(projections, Projection{
			Title:     sanitize.Field(book.Title),
			Author:    sanitize.Field(book.Author),
			Publisher: sanitize.Field(book.Publisher),
			Price:     book.PriceSales,
			Category:  category,
		})
	}
	return projections
}

// EncodeProjections serializes projections as compact JSON without HTML escaping
func EncodeProjections(projections []Projection) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(projections); err != nil {
		return "", fmt.Errorf("failed to encode book list: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// AnalysisSchema declares the object the model must return
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			response.FieldSummary:             {Type: genai.TypeString},
			response.FieldBudgetAnalysis:      {Type: genai.TypeString},
			response.FieldCategoryBreakdown:   {Type: genai.TypeString},
			response.FieldRecommendationScore: {Type: genai.TypeNumber},
		},
		Required: []string{
			response.FieldSummary,
			response.FieldBudgetAnalysis,
			response.FieldCategoryBreakdown,
			response.FieldRecommendationScore,
		},
		PropertyOrdering: []string{
			response.FieldSummary,
			response.FieldBudgetAnalysis,
			response.FieldCategoryBreakdown,
			response.FieldRecommendationScore,
		},
	}
}

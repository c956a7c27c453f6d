package prompt

import "github.com/lithammer/dedent"

// SystemInstruction is the role directive sent with every analysis request
const SystemInstruction = "You are an expert librarian and collection development specialist. " +
	"You analyze book lists for public libraries, ensuring diversity, budget efficiency, and community relevance."

// DefaultLanguage is the language the analysis is written in unless configured otherwise
const DefaultLanguage = "Korean"

// UnknownCategory replaces a missing category in the projection
const UnknownCategory = "Unknown"

// analysisPromptTemplate takes the serialized book list and the response language
var analysisPromptTemplate = dedent.Dedent(`
	Analyze the following list of books selected for library acquisition.
	Book List: %s

	Please provide a JSON response with:
	1. A summary of the collection and why it's a balanced selection (summary).
	2. An analysis of the budget and pricing efficiency (budgetAnalysis).
	3. A breakdown of the categories represented (categoryBreakdown).
	4. A recommendation score from 0 to 100 based on diversity, price efficiency, and general quality (recommendationScore).

	Language: %s.
`)

package intent

import (
	"context"
	"fmt"
	"time"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/llm"
	"trip-assistant-be/pkg/travel"
)

// DateInfo is the date block of a pre-classification
type DateInfo struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Duration  string `json:"duration"`
}

// Preclassification is the model's structured reading of a message
type Preclassification struct {
	QueryType       string   `json:"query_type"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	DateInfo        DateInfo `json:"date_info"`
	Preferences     []string `json:"preferences"`
	StructuredQuery string   `json:"structured_query"`
	OriginalQuery   string   `json:"original_query,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func (p *Preclassification) Capability() travel.Capability {
	if p == nil {
		return travel.CapabilityGeneral
	}
	return travel.ParseCapability(p.QueryType)
}

const preprocessPrompt = `You are a travel query analyzer that extracts structured information from natural language travel queries.
Identify the query type (flight search, place info, directions, activity recommendations), the origin, the destination(s), date information (exact dates or relative periods like "next week") and any preferences.

Respond with a single JSON object and nothing else:
{
  "query_type": "flight" | "poi" | "directions" | "recommendations" | "general",
  "origin": "location name or empty string if not specified",
  "destination": "location name or empty string",
  "date_info": {"start_date": "YYYY-MM-DD or empty", "end_date": "YYYY-MM-DD or empty", "duration": "number of days or empty"},
  "preferences": ["list", "of", "preferences"],
  "structured_query": "a reformatted version of the query optimized for search tools"
}

Today's date is %s. Use it to resolve relative dates.`

// Preprocessor asks the language model for a Preclassification
type Preprocessor struct {
	llm    llm.LLMProvider
	logger logger.ILogger
	now    func() time.Time
}

func NewPreprocessor(provider llm.LLMProvider, log logger.ILogger) *Preprocessor {
	return &Preprocessor{llm: provider, logger: log, now: time.Now}
}

// Preprocess never fails. Any model or decoding error yields a general
// pre-classification carrying the error text.
func (p *Preprocessor) Preprocess(ctx context.Context, message string) *Preclassification {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(preprocessPrompt, p.now().Format("January 2, 2006"))},
		{Role: llm.RoleUser, Content: message},
	}

	raw, err := p.llm.Chat(ctx, history, llm.WithTemperature(0))
	if err != nil {
		p.logger.Warn("PREPROCESS", "Pre-classification call failed", map[string]interface{}{"error": err.Error()})
		return &Preclassification{QueryType: string(travel.CapabilityGeneral), OriginalQuery: message, Error: err.Error()}
	}

	var out Preclassification
	if err := llm.ExtractJSON(raw, &out); err != nil {
		p.logger.Warn("PREPROCESS", "Pre-classification was not JSON", map[string]interface{}{"error": err.Error(), "raw": raw})
		return &Preclassification{QueryType: string(travel.CapabilityGeneral), OriginalQuery: message, Error: err.Error()}
	}
	if out.QueryType == "" {
		out.QueryType = string(travel.CapabilityGeneral)
	}
	out.OriginalQuery = message

	p.logger.Debug("PREPROCESS", "Message pre-classified", map[string]interface{}{
		"query_type":  out.QueryType,
		"origin":      out.Origin,
		"destination": out.Destination,
	})
	return &out
}

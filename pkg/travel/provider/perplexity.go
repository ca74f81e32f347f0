package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-assistant-be/pkg/travel"
)

const DefaultPerplexityBaseURL = "https://api.perplexity.ai"

// PerplexitySearch is a synchronous web search backend. The same client
// serves general questions and flight questions phrased as searches.
type PerplexitySearch struct {
	id         string
	capability travel.Capability
	apiKey     string
	baseURL    string
	maxResults int
	http       *http.Client
	query      func(Params) string
}

var _ Adapter = &PerplexitySearch{}

func NewPerplexitySearch(apiKey, baseURL string) *PerplexitySearch {
	return newPerplexity(ToolSearch, travel.CapabilityGeneral, apiKey, baseURL, func(p Params) string {
		return p.Query
	})
}

// NewPerplexityFlightSearch answers flight questions from search results
func NewPerplexityFlightSearch(apiKey, baseURL string) *PerplexitySearch {
	return newPerplexity(ToolSearch+"/flights", travel.CapabilityFlight, apiKey, baseURL, func(p Params) string {
		if p.Origin == "" || p.Destination == "" {
			return p.Query
		}
		q := fmt.Sprintf("flights from %s to %s", p.Origin, p.Destination)
		if p.Date != "" {
			q += " on " + p.Date
		}
		return q + " with airline, schedule and price"
	})
}

func newPerplexity(id string, c travel.Capability, apiKey, baseURL string, query func(Params) string) *PerplexitySearch {
	if baseURL == "" {
		baseURL = DefaultPerplexityBaseURL
	}
	return &PerplexitySearch{
		id:         id,
		capability: c,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: 5,
		http:       &http.Client{Timeout: 30 * time.Second},
		query:      query,
	}
}

func (p *PerplexitySearch) ID() string                    { return p.id }
func (p *PerplexitySearch) Capability() travel.Capability { return p.capability }
func (p *PerplexitySearch) IsAvailable() bool             { return p.apiKey != "" }

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"results"`
}

func (p *PerplexitySearch) Execute(ctx context.Context, params Params) Result {
	start := time.Now()
	query := strings.TrimSpace(p.query(params))
	if query == "" {
		return Failed(p.id, StatusValidationError, "empty search query", time.Since(start))
	}

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: p.maxResults})
	if err != nil {
		return FromError(p.id, fmt.Errorf("encode search request: %w", err), time.Since(start))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return FromError(p.id, err, time.Since(start))
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return FromError(p.id, fmt.Errorf("perplexity request failed: %w", err), time.Since(start))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return FromError(p.id, err, time.Since(start))
	}
	if resp.StatusCode != http.StatusOK {
		return Failed(p.id, StatusProviderError, fmt.Sprintf("perplexity status %d: %s", resp.StatusCode, truncate(string(raw), 200)), time.Since(start))
	}

	var out searchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return FromError(p.id, fmt.Errorf("unmarshal response: %w", err), time.Since(start))
	}

	var sb strings.Builder
	for i, r := range out.Results {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", strings.TrimSpace(r.Snippet))
		}
		if r.URL != "" {
			fmt.Fprintf(&sb, "   Source: %s\n", r.URL)
		}
	}
	return OK(p.id, sb.String(), time.Since(start))
}

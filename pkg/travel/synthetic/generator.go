// Package synthetic produces substitute data once every real provider for a
// capability has failed. Curated tables cover a few well-known routes and
// cities; anything else is estimated by the language model, and a static
// notice is the final answer when that fails too.
package synthetic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/llm"
	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/provider"
)

type Kind string

const (
	KindCurated   Kind = "curated"
	KindEstimated Kind = "estimated"
	KindStatic    Kind = "static"
)

const (
	curatedNotice   = "Sample data from a curated table. Live providers were unavailable; confirm times and prices before booking."
	estimatedNotice = "ESTIMATED data generated by a language model because live providers were unavailable. Figures are approximate and must be verified."
)

// Envelope wraps curated and estimated results so they can never be taken
// for live provider output
type Envelope struct {
	Source  string          `json:"source"`
	Kind    Kind            `json:"kind"`
	Notice  string          `json:"notice"`
	Results json.RawMessage `json:"results"`
}

// Output is what the generator produced for one capability
type Output struct {
	ProviderID string
	Kind       Kind
	Payload    string
}

type Generator struct {
	llm    llm.LLMProvider
	logger logger.ILogger
	now    func() time.Time
}

// NewGenerator builds a generator. model may be nil, in which case unknown
// routes go straight to the static notice.
func NewGenerator(model llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{llm: model, logger: log, now: time.Now}
}

// WithClock fixes the reference time used to date curated flights
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate always returns a non-empty payload
func (g *Generator) Generate(ctx context.Context, c travel.Capability, p provider.Params) Output {
	id := provider.SyntheticID(c)
	if c == travel.CapabilityReservation {
		return Output{ProviderID: id, Kind: KindStatic, Payload: staticText(c)}
	}

	if results, ok := g.curated(c, p); ok {
		payload, err := envelope(KindCurated, curatedNotice, results)
		if err == nil {
			return Output{ProviderID: id, Kind: KindCurated, Payload: payload}
		}
		g.logger.Warn("SYNTHETIC", "Failed to encode curated data", map[string]interface{}{"capability": c, "error": err.Error()})
	}

	if payload, err := g.estimate(ctx, c, p); err == nil {
		return Output{ProviderID: id, Kind: KindEstimated, Payload: payload}
	} else if g.llm != nil {
		g.logger.Warn("SYNTHETIC", "Estimated data unavailable, using static notice", map[string]interface{}{"capability": c, "error": err.Error()})
	}

	return Output{ProviderID: id, Kind: KindStatic, Payload: staticText(c)}
}

func (g *Generator) curated(c travel.Capability, p provider.Params) (any, bool) {
	switch c {
	case travel.CapabilityFlight:
		return curatedFlightsFor(p.Origin, p.OriginCode, p.Destination, p.DestinationCode, g.travelDay(p.Date))
	case travel.CapabilityPOI, travel.CapabilityRecommendations:
		location := p.Destination
		if location == "" {
			location = p.Query
		}
		return curatedPOIsFor(location)
	case travel.CapabilityDirections:
		return curatedRouteFor(p.Origin, p.Destination)
	}
	return nil, false
}

// travelDay is the requested date, or a week out when none was given
func (g *Generator) travelDay(date string) time.Time {
	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d
	}
	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day()+7, 0, 0, 0, 0, time.UTC)
}

var schemaHints = map[travel.Capability]string{
	travel.CapabilityFlight:          `a JSON array of 2-3 objects with keys airline, flightNumber, departureAirport, arrivalAirport, departureDate, duration, price, currency`,
	travel.CapabilityPOI:             `a JSON array of 3-5 objects with keys name, type (attraction, restaurant or activity), location, rating, description`,
	travel.CapabilityRecommendations: `a JSON array of 3-5 objects with keys name, type, location, description`,
	travel.CapabilityDirections:      `a JSON object with keys origin, destination, travelMode, distance, duration, summary, steps (array of strings)`,
	travel.CapabilityTranslation:     `a JSON object with keys text and target_language`,
	travel.CapabilityGeneral:         `a JSON object with keys answer and caveats`,
}

func (g *Generator) estimate(ctx context.Context, c travel.Capability, p provider.Params) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("no language model configured")
	}
	hint, ok := schemaHints[c]
	if !ok {
		hint = schemaHints[travel.CapabilityGeneral]
	}

	prompt := fmt.Sprintf(`Live travel data is unavailable. Produce plausible, clearly approximate data for this request.

Request: %s
Origin: %s
Destination: %s
Date: %s

Return ONLY %s. No explanation.`,
		valueOr(p.Query, p.Text), valueOr(p.Origin, "unknown"), valueOr(p.Destination, "unknown"), valueOr(p.Date, "unspecified"), hint)

	out, err := g.llm.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("generate estimate: %w", err)
	}
	var raw json.RawMessage
	if err := llm.ExtractJSON(out, &raw); err != nil {
		return "", err
	}
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "[]", "{}":
		return "", fmt.Errorf("estimate is empty")
	}
	return envelope(KindEstimated, estimatedNotice, raw)
}

func envelope(kind Kind, notice string, results any) (string, error) {
	raw, ok := results.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(results)
		if err != nil {
			return "", err
		}
		raw = b
	}
	b, err := json.MarshalIndent(Envelope{Source: "synthetic", Kind: kind, Notice: notice, Results: raw}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// staticText is the last resort for every capability
func staticText(c travel.Capability) string {
	if c == travel.CapabilityReservation {
		return "The reservation could not be completed and no booking was made. Please contact the venue directly."
	}
	return fmt.Sprintf("No live or sample %s data is available for this request right now. "+
		"Please try alternative channels such as official websites, the operator's app or a local travel agent.", c)
}

// Decode reads an envelope back; ok is false for plain text payloads
func Decode(payload string) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil || env.Source != "synthetic" {
		return Envelope{}, false
	}
	return env, true
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

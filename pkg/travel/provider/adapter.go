package provider

import (
	"context"
	"strings"

	"trip-assistant-be/pkg/travel"
)

// Tool names recorded with each interaction. The trip cache dispatches its
// extractors on these.
const (
	ToolFlight      = "apify_flight"
	ToolPOI         = "apify_poi"
	ToolMaps        = "apify_google_maps"
	ToolSearch      = "perplexity_search"
	ToolTranslate   = "deepl_translate"
	ToolReservation = "vapi_reservation"
	ToolDirectCall  = "vapi_call"
)

// Params carries everything any adapter may need. Adapters read only the
// fields relevant to their capability.
type Params struct {
	Query string `json:"query"`

	Origin          string `json:"origin,omitempty"`
	Destination     string `json:"destination,omitempty"`
	Date            string `json:"date,omitempty"`
	OriginCode      string `json:"origin_code,omitempty"`
	DestinationCode string `json:"destination_code,omitempty"`

	Text           string `json:"text,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`

	Reservation *ReservationRequest `json:"reservation,omitempty"`
}

// Key identifies params for memoization
func (p Params) Key() string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(p.Query)),
		strings.ToLower(p.Origin), strings.ToLower(p.Destination), p.Date,
		p.OriginCode, p.DestinationCode, p.Text, p.TargetLanguage,
	}, "|")
}

// Adapter wraps one external backend for one capability
type Adapter interface {
	ID() string
	Capability() travel.Capability
	IsAvailable() bool
	Execute(ctx context.Context, params Params) Result
}

// ParamValidator is implemented by adapters that can reject their params
// before any call is made, configured or not. The error wraps
// travel.ErrValidation.
type ParamValidator interface {
	ValidateParams(params Params) error
}

// ToolName returns the tool family of a provider id such as
// "apify_flight/flight-finder".
func ToolName(providerID string) string {
	name, _, _ := strings.Cut(providerID, "/")
	return name
}

// DefaultToolName is the tool family that serves a capability
func DefaultToolName(c travel.Capability) string {
	switch c {
	case travel.CapabilityFlight:
		return ToolFlight
	case travel.CapabilityPOI, travel.CapabilityRecommendations:
		return ToolPOI
	case travel.CapabilityDirections:
		return ToolMaps
	case travel.CapabilityTranslation:
		return ToolTranslate
	case travel.CapabilityReservation:
		return ToolReservation
	default:
		return ToolSearch
	}
}

// SyntheticID is the provider id used for generated data of a capability
func SyntheticID(c travel.Capability) string {
	return "synthetic/" + string(c)
}

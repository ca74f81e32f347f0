package travel

import "strings"

// Capability is one discrete assistant function a message can be routed to
type Capability string

const (
	CapabilityFlight          Capability = "flight"
	CapabilityPOI             Capability = "poi"
	CapabilityDirections      Capability = "directions"
	CapabilityTranslation     Capability = "translation"
	CapabilityReservation     Capability = "reservation"
	CapabilityRecommendations Capability = "recommendations"
	CapabilityGeneral         Capability = "general"

	// CapabilityNone means no tool applies and the LLM answers on its own
	CapabilityNone Capability = "none"
)

// ParseCapability maps a free-form query type onto a Capability.
// Unknown values collapse to general.
func ParseCapability(s string) Capability {
	switch Capability(strings.ToLower(strings.TrimSpace(s))) {
	case CapabilityFlight:
		return CapabilityFlight
	case CapabilityPOI:
		return CapabilityPOI
	case CapabilityDirections:
		return CapabilityDirections
	case CapabilityTranslation:
		return CapabilityTranslation
	case CapabilityReservation:
		return CapabilityReservation
	case CapabilityRecommendations:
		return CapabilityRecommendations
	default:
		return CapabilityGeneral
	}
}

// StructuredQuery is the per-message view produced by routing and extraction
type StructuredQuery struct {
	Capability  Capability `json:"capability"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Date        string     `json:"date,omitempty"`
	RawText     string     `json:"raw_text"`
	Preferences []string   `json:"preferences,omitempty"`
}

// NewStructuredQuery returns a query with the capability defaulted to general
func NewStructuredQuery(raw string) StructuredQuery {
	return StructuredQuery{
		Capability: CapabilityGeneral,
		RawText:    raw,
	}
}

// HasRoute reports whether both ends of a trip are known
func (q StructuredQuery) HasRoute() bool {
	return q.Origin != "" && q.Destination != ""
}

package extract

import (
	"regexp"
	"sort"
	"time"

	"trip-assistant-be/pkg/travel"
)

var poiDestinationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:things\s+to\s+do|attractions|places\s+to\s+(?:visit|see|eat)|restaurants|museums|sights|what\s+to\s+(?:do|see))\s+(?:in|at|around|near)\s+(.+)`),
	regexp.MustCompile(`\b(?:in|near|around)\s+(.+)`),
	regexp.MustCompile(`\b(?:visit|visiting|explore|exploring)\s+(.+)`),
}

// preferenceTerms are the modifiers carried through to providers and the reply
var preferenceTerms = []string{
	"cheap", "cheapest", "budget", "luxury", "direct", "nonstop", "non-stop",
	"family", "kid-friendly", "romantic", "outdoor", "hiking", "museum",
	"museums", "food", "vegetarian", "vegan", "nightlife", "shopping",
	"beach", "morning", "afternoon", "evening", "business class",
	"economy", "first class", "pet-friendly", "accessible", "scenic",
}

// Extract builds the StructuredQuery for text under the given capability.
// It never fails; fields it cannot determine stay empty.
func Extract(capability travel.Capability, text string, now time.Time) travel.StructuredQuery {
	q := travel.NewStructuredQuery(text)
	if capability != "" {
		q.Capability = capability
	}
	s := normalize(text)

	switch q.Capability {
	case travel.CapabilityFlight:
		p := Flight(text, now)
		q.Origin, q.Destination, q.Date = p.Origin, p.Destination, p.Date
	case travel.CapabilityDirections:
		q.Origin, q.Destination = Directions(text)
		q.Date = Date(s, now)
	case travel.CapabilityPOI, travel.CapabilityRecommendations:
		q.Destination = POIDestination(text)
		if o, _, ok := fromThenTo(s); ok {
			q.Origin = o
		}
		q.Date = Date(s, now)
	default:
		q.Origin, q.Destination = naturalFlightRoute(s)
		q.Date = Date(s, now)
	}

	q.Preferences = Preferences(text)
	return q
}

// POIDestination finds the place a points-of-interest request is about
func POIDestination(text string) string {
	s := normalize(text)
	for _, re := range poiDestinationPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if place := cleanPlace(m[1]); place != "" {
				return place
			}
		}
	}
	return ""
}

// Preferences returns the known modifiers in the order they appear in text
func Preferences(text string) []string {
	s := normalize(text)
	type hit struct {
		term string
		at   int
	}
	var hits []hit
	for _, term := range preferenceTerms {
		if i := indexWord(s, term, 0); i >= 0 {
			hits = append(hits, hit{term: term, at: i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].at < hits[b].at })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.term)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

package intent

import (
	"sort"
	"strings"
	"time"

	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/extract"
)

const (
	PriorityGeneral        = 0
	PriorityPreclassified  = 10
	PriorityNearbyRedirect = 20
	PriorityTranslation    = 30
	PriorityReservation    = 40
)

// Input is what every rule sees for one message
type Input struct {
	Message string
	Lower   string
	Pre     *Preclassification
	Now     time.Time
}

func (in Input) preCapability() travel.Capability {
	if in.Pre == nil {
		return travel.CapabilityGeneral
	}
	return in.Pre.Capability()
}

// Rule maps a predicate to a capability. Rewrite may be nil, in which case the
// message is passed through unchanged.
type Rule struct {
	Name       string
	Priority   int
	Capability travel.Capability
	Match      func(Input) bool
	Rewrite    func(Input) string
}

// Decision is the outcome of routing one message
type Decision struct {
	Capability travel.Capability
	Message    string
	Rule       string
}

// Router evaluates a rule table once per message and keeps the highest
// priority match. Ties keep table order.
type Router struct {
	rules []Rule
	now   func() time.Time
}

func NewRouter(rules ...Rule) *Router {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })
	return &Router{rules: sorted, now: time.Now}
}

// WithClock replaces the clock used for date resolution in rewrites
func (r *Router) WithClock(now func() time.Time) *Router {
	r.now = now
	return r
}

// Rules returns the table in evaluation order
func (r *Router) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Route picks the capability for message. When no rule matches the decision
// carries CapabilityNone and the original message.
func (r *Router) Route(message string, pre *Preclassification) Decision {
	in := Input{
		Message: message,
		Lower:   strings.ToLower(message),
		Pre:     pre,
		Now:     r.now(),
	}
	for _, rule := range r.rules {
		if !rule.Match(in) {
			continue
		}
		out := message
		if rule.Rewrite != nil {
			out = rule.Rewrite(in)
		}
		return Decision{Capability: rule.Capability, Message: out, Rule: rule.Name}
	}
	return Decision{Capability: travel.CapabilityNone, Message: message}
}

var (
	translationStems = []string{"translat"}
	languageNames    = []string{"spanish", "french", "german", "japanese", "italian", "chinese"}
	reservationStems = []string{"book", "reserv", "call"}
)

// DefaultRules is the production routing table. A reservation request wins
// over translation when a message carries both triggers.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "reservation-keyword",
			Priority:   PriorityReservation,
			Capability: travel.CapabilityReservation,
			Match:      func(in Input) bool { return hasWordWithPrefix(in.Lower, reservationStems...) },
		},
		{
			Name:       "translation-keyword",
			Priority:   PriorityTranslation,
			Capability: travel.CapabilityTranslation,
			Match: func(in Input) bool {
				return hasWordWithPrefix(in.Lower, translationStems...) || hasWord(in.Lower, languageNames...)
			},
		},
		{
			Name:       "nearby-recommendations",
			Priority:   PriorityNearbyRedirect,
			Capability: travel.CapabilityGeneral,
			Match: func(in Input) bool {
				return in.preCapability() == travel.CapabilityRecommendations &&
					in.Pre.Origin != "" && in.Pre.Destination == ""
			},
			Rewrite: func(in Input) string { return "weekend trips near " + in.Pre.Origin },
		},
		{
			Name:       "preclassified-flight",
			Priority:   PriorityPreclassified,
			Capability: travel.CapabilityFlight,
			Match:      func(in Input) bool { return in.preCapability() == travel.CapabilityFlight },
			Rewrite:    rewriteFlight,
		},
		{
			Name:       "preclassified-poi",
			Priority:   PriorityPreclassified,
			Capability: travel.CapabilityPOI,
			Match: func(in Input) bool {
				c := in.preCapability()
				return c == travel.CapabilityPOI || c == travel.CapabilityRecommendations
			},
			Rewrite: func(in Input) string {
				if in.Pre.Destination != "" {
					return in.Pre.Destination
				}
				return in.Message
			},
		},
		{
			Name:       "preclassified-directions",
			Priority:   PriorityPreclassified,
			Capability: travel.CapabilityDirections,
			Match:      func(in Input) bool { return in.preCapability() == travel.CapabilityDirections },
			Rewrite:    rewriteDirections,
		},
		{
			Name:       "general-search",
			Priority:   PriorityGeneral,
			Capability: travel.CapabilityGeneral,
			Match:      func(in Input) bool { return in.preCapability() == travel.CapabilityGeneral },
			Rewrite: func(in Input) string {
				if in.Pre != nil && strings.TrimSpace(in.Pre.StructuredQuery) != "" {
					return in.Pre.StructuredQuery
				}
				return in.Message
			},
		},
	}
}

// rewriteFlight emits the explicit "from: x, to: y, date: z" form, filling
// whatever the pre-classification missed from the message itself. Place
// names are lowercased like the extractor's.
func rewriteFlight(in Input) string {
	parsed := extract.Flight(in.Message, in.Now)
	origin, destination, date := in.Pre.Origin, in.Pre.Destination, in.Pre.DateInfo.StartDate
	if origin == "" {
		origin = parsed.Origin
	}
	if destination == "" {
		destination = parsed.Destination
	}
	if date == "" {
		date = parsed.Date
	}
	if origin == "" || destination == "" {
		return in.Message
	}
	return extract.FlightParams{
		Origin:      strings.ToLower(origin),
		Destination: strings.ToLower(destination),
		Date:        date,
	}.Canonical()
}

func rewriteDirections(in Input) string {
	origin, destination := in.Pre.Origin, in.Pre.Destination
	if origin == "" || destination == "" {
		o, d := extract.Directions(in.Message)
		if origin == "" {
			origin = o
		}
		if destination == "" {
			destination = d
		}
	}
	if origin == "" || destination == "" {
		return in.Message
	}
	return "directions from " + origin + " to " + destination
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '\'')
	})
}

func hasWord(s string, candidates ...string) bool {
	for _, w := range words(s) {
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}

func hasWordWithPrefix(s string, stems ...string) bool {
	for _, w := range words(s) {
		for _, stem := range stems {
			if strings.HasPrefix(w, stem) {
				return true
			}
		}
	}
	return false
}

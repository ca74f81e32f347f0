package extract

import (
	"regexp"
	"strings"
	"time"
)

// FlightParams is the normalized input for the flight capability
type FlightParams struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Date            string `json:"date,omitempty"`
	OriginCode      string `json:"origin_code,omitempty"`
	DestinationCode string `json:"destination_code,omitempty"`
}

// Complete reports whether both route ends were found
func (p FlightParams) Complete() bool {
	return p.Origin != "" && p.Destination != ""
}

// Canonical renders the params in the explicit form the router emits
func (p FlightParams) Canonical() string {
	s := "from: " + p.Origin + ", to: " + p.Destination
	if p.Date != "" {
		s += ", date: " + p.Date
	}
	return s
}

var (
	explicitFromRe = regexp.MustCompile(`(?i)(?:^|[\s,])from:\s*([^,]*)`)
	explicitToRe   = regexp.MustCompile(`(?i)(?:^|[\s,])to:\s*([^,]*)`)
	explicitDateRe = regexp.MustCompile(`(?i)(?:^|[\s,])date:\s*([^,]*)`)

	travelVerbRe = regexp.MustCompile(`\b(?:travel|travelling|traveling|going|go|fly|flying|head|heading)\s+to\s+(.+)`)
	visitRe      = regexp.MustCompile(`\b(?:visit|visiting)\s+(?:to\s+)?(.+)`)
)

// landmarks map a well-known keyword onto a curated origin/destination pair
// used when nothing better was found in the text.
var landmarks = []struct {
	keyword     string
	origin      string
	destination string
}{
	{keyword: "yosemite", origin: "san francisco", destination: "mariposa"},
	{keyword: "grand canyon", origin: "las vegas", destination: "flagstaff"},
	{keyword: "yellowstone", origin: "salt lake city", destination: "jackson"},
}

// genericStopWords are dropped from the words preceding a bare " to "
var genericStopWords = map[string]bool{
	"flights": true, "flight": true, "fly": true, "flying": true, "cheap": true,
	"cheapest": true, "a": true, "the": true, "i": true, "want": true,
	"need": true, "go": true, "get": true, "me": true, "find": true,
	"search": true, "book": true, "trip": true, "travel": true, "ticket": true,
	"tickets": true, "from": true, "show": true, "any": true, "direct": true,
	"nonstop": true, "one-way": true, "round": true, "way": true, "how": true,
	"much": true, "is": true, "it": true, "are": true, "there": true,
	"what": true, "options": true, "going": true, "like": true, "would": true,
	"to": true, "plan": true, "planning": true, "traveling": true,
	"travelling": true, "visit": true, "visiting": true, "head": true,
	"heading": true, "headed": true, "drive": true, "driving": true,
}

// Flight extracts the route and date from a flight request. The explicit
// "from: X, to: Y, date: Z" form wins over natural-language parsing.
func Flight(text string, now time.Time) FlightParams {
	var p FlightParams
	if explicitToRe.MatchString(text) || explicitFromRe.MatchString(text) {
		p = explicitFlight(text)
		if p.Date == "" {
			p.Date = Date(text, now)
		}
	} else {
		s := normalize(text)
		p.Origin, p.Destination = naturalFlightRoute(s)
		p.Date = Date(s, now)
	}

	p.OriginCode, _ = AirportCode(p.Origin)
	p.DestinationCode, _ = AirportCode(p.Destination)
	return p
}

func explicitFlight(text string) FlightParams {
	var p FlightParams
	if m := explicitFromRe.FindStringSubmatch(text); m != nil {
		p.Origin = strings.TrimSpace(m[1])
	}
	if m := explicitToRe.FindStringSubmatch(text); m != nil {
		p.Destination = strings.TrimSpace(m[1])
	}
	if m := explicitDateRe.FindStringSubmatch(text); m != nil {
		p.Date = strings.TrimSpace(m[1])
	}
	return p
}

// naturalFlightRoute tries each pattern in turn; s must be normalized
func naturalFlightRoute(s string) (origin, destination string) {
	if o, d, ok := fromThenTo(s); ok {
		return o, d
	}
	if o, d, ok := toThenFrom(s); ok {
		return o, d
	}
	if o, d, ok := bareTo(s); ok {
		return o, d
	}

	if m := travelVerbRe.FindStringSubmatch(s); m != nil {
		destination = cleanPlace(lastSegment(m[1]))
	} else if m := visitRe.FindStringSubmatch(s); m != nil {
		destination = cleanPlace(m[1])
	}
	if i := indexWord(s, "from", 0); i >= 0 {
		rest := s[i+len("from"):]
		if j := indexWord(rest, "to", 0); j >= 0 {
			rest = rest[:j]
		}
		origin = cleanPlace(rest)
	}

	if destination == "" {
		for _, lm := range landmarks {
			if strings.Contains(s, lm.keyword) {
				if origin == "" {
					origin = lm.origin
				}
				destination = lm.destination
				break
			}
		}
	}
	return origin, destination
}

// fromThenTo handles "from A to B"
func fromThenTo(s string) (string, string, bool) {
	i := indexWord(s, "from", 0)
	if i < 0 {
		return "", "", false
	}
	rest := s[i+len("from"):]
	j := indexWord(rest, "to", 0)
	if j < 0 {
		return "", "", false
	}
	origin := cleanPlace(rest[:j])
	destination := cleanPlace(rest[j+len("to"):])
	if origin == "" || destination == "" {
		return "", "", false
	}
	return origin, destination, true
}

// toThenFrom handles "to B from A"
func toThenFrom(s string) (string, string, bool) {
	f := indexWord(s, "from", 0)
	if f < 0 {
		return "", "", false
	}
	left := s[:f]
	t := lastIndexWord(left, "to")
	if t < 0 {
		return "", "", false
	}
	destination := cleanPlace(left[t+len("to"):])
	origin := cleanPlace(s[f+len("from"):])
	if origin == "" || destination == "" {
		return "", "", false
	}
	return origin, destination, true
}

// bareTo handles "A to B" by taking the last words before the first " to "
// and the first words after it.
func bareTo(s string) (string, string, bool) {
	t := indexWord(s, "to", 0)
	if t < 0 {
		return "", "", false
	}
	before := strings.Fields(s[:t])
	var kept []string
	for i := len(before) - 1; i >= 0 && len(kept) < 3; i-- {
		if genericStopWords[before[i]] {
			break
		}
		kept = append([]string{before[i]}, kept...)
	}
	origin := strings.Join(kept, " ")

	after := strings.Fields(cleanPlace(s[t+len("to"):]))
	if len(after) > 3 {
		after = after[:3]
	}
	destination := strings.Join(after, " ")
	if origin == "" || destination == "" {
		return "", "", false
	}
	return origin, destination, true
}

// lastSegment keeps the text after the final " to " so that
// "going to fly to paris" yields "paris".
func lastSegment(s string) string {
	if i := lastIndexWord(s, "to"); i >= 0 {
		return s[i+len("to"):]
	}
	return s
}

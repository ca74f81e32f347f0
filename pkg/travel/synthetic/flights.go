package synthetic

import (
	"fmt"
	"strings"
	"time"
)

// Flight mirrors the record shape the flight actors return
type Flight struct {
	Airline          string `json:"airline"`
	FlightNumber     string `json:"flightNumber"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
	DepartureCity    string `json:"departureCity"`
	ArrivalCity      string `json:"arrivalCity"`
	DepartureDate    string `json:"departureDate"`
	ArrivalDate      string `json:"arrivalDate"`
	Duration         string `json:"duration"`
	Price            string `json:"price"`
	Currency         string `json:"currency"`
	StopCount        int    `json:"stopCount"`
	CabinClass       string `json:"cabinClass"`
}

// schedule is a curated departure; times are clock offsets from midnight
// of the travel date.
type schedule struct {
	airline  string
	number   string
	from, to string
	depart   time.Duration
	duration time.Duration
	price    string
	currency string
}

type curatedRoute struct {
	origin      place
	destination place
	flights     []schedule
}

// place matches a city by airport code or by name
type place struct {
	name  string
	codes []string
	names []string
}

func (p place) matches(name, code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range p.codes {
		if code == c || strings.ToUpper(name) == c {
			return true
		}
	}
	for _, n := range p.names {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

var (
	sanFrancisco = place{name: "San Francisco", codes: []string{"SFO", "SF", "OAK"}, names: []string{"san francisco"}}
	fresno       = place{name: "Fresno", codes: []string{"FAT"}, names: []string{"fresno"}}
	newYork      = place{name: "New York", codes: []string{"JFK", "EWR", "LGA", "NYC"}, names: []string{"new york"}}
	london       = place{name: "London", codes: []string{"LHR", "LGW", "LON"}, names: []string{"london"}}
	tokyo        = place{name: "Tokyo", codes: []string{"NRT", "HND", "TYO"}, names: []string{"tokyo"}}
	paris        = place{name: "Paris", codes: []string{"CDG", "ORY", "PAR"}, names: []string{"paris"}}
	berlin       = place{name: "Berlin", codes: []string{"BER", "TXL", "SXF"}, names: []string{"berlin"}}
	rome         = place{name: "Rome", codes: []string{"FCO", "CIA", "ROM"}, names: []string{"rome"}}
	yosemite     = place{name: "Yosemite", codes: []string{"MPI"}, names: []string{"yosemite", "mariposa"}}
)

var curatedFlights = []curatedRoute{
	{
		origin:      sanFrancisco,
		destination: fresno,
		flights: []schedule{
			{"United Airlines", "UA5368", "SFO", "FAT", 7*time.Hour + 15*time.Minute, 65 * time.Minute, "$129", "USD"},
			{"United Airlines", "UA5810", "SFO", "FAT", 13*time.Hour + 40*time.Minute, 62 * time.Minute, "$158", "USD"},
			{"Alaska Airlines", "AS3342", "SFO", "FAT", 18*time.Hour + 5*time.Minute, 68 * time.Minute, "$142", "USD"},
		},
	},
	{
		origin:      newYork,
		destination: london,
		flights: []schedule{
			{"British Airways", "BA178", "JFK", "LHR", 19*time.Hour + 30*time.Minute, 7*time.Hour + 15*time.Minute, "$742", "USD"},
			{"United Airlines", "UA14", "EWR", "LHR", 18*time.Hour + 15*time.Minute, 7*time.Hour + 15*time.Minute, "$689", "USD"},
			{"Virgin Atlantic", "VS4", "JFK", "LHR", 21 * time.Hour, 7*time.Hour + 20*time.Minute, "$715", "USD"},
		},
	},
	{
		origin:      tokyo,
		destination: paris,
		flights: []schedule{
			{"Air France", "AF275", "NRT", "CDG", 11*time.Hour + 45*time.Minute, 12*time.Hour + 40*time.Minute, "$1,230", "USD"},
			{"Japan Airlines", "JL215", "HND", "CDG", 10*time.Hour + 30*time.Minute, 12*time.Hour + 45*time.Minute, "$1,315", "USD"},
		},
	},
	{
		origin:      berlin,
		destination: rome,
		flights: []schedule{
			{"Lufthansa", "LH230", "BER", "FCO", 14*time.Hour + 25*time.Minute, 2*time.Hour + 15*time.Minute, "€187", "EUR"},
			{"Ryanair", "FR8542", "BER", "CIA", 10*time.Hour + 5*time.Minute, 2*time.Hour + 10*time.Minute, "€93", "EUR"},
		},
	},
}

const flightTimeLayout = "2006-01-02T15:04:05"

// curatedFlightsFor returns the table for a known route laid out on day
func curatedFlightsFor(origin, originCode, destination, destinationCode string, day time.Time) ([]Flight, bool) {
	for _, r := range curatedFlights {
		if !r.origin.matches(origin, originCode) || !r.destination.matches(destination, destinationCode) {
			continue
		}
		out := make([]Flight, 0, len(r.flights))
		for _, s := range r.flights {
			dep := day.Add(s.depart)
			out = append(out, Flight{
				Airline:          s.airline,
				FlightNumber:     s.number,
				DepartureAirport: s.from,
				ArrivalAirport:   s.to,
				DepartureCity:    r.origin.name,
				ArrivalCity:      r.destination.name,
				DepartureDate:    dep.Format(flightTimeLayout),
				ArrivalDate:      dep.Add(s.duration).Format(flightTimeLayout),
				Duration:         formatDuration(s.duration),
				Price:            s.price,
				Currency:         s.currency,
				CabinClass:       "Economy",
			})
		}
		return out, true
	}
	return nil, false
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}

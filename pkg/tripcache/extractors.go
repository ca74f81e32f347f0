package tripcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/extract"
	"trip-assistant-be/pkg/travel/provider"
	"trip-assistant-be/pkg/travel/synthetic"
)

const (
	maxFlightsPerStep    = 3
	maxActivitiesPerStep = 5
	maxNoteLength        = 300
)

var errNoRecords = errors.New("tool output holds no records")

type extractor func(c *TripCache, query string, step ToolStep, now time.Time) error

// extractorFor picks the extractor for a provider id. Synthetic payloads are
// dispatched by the capability they stand in for.
func extractorFor(providerID string) (string, extractor) {
	name := provider.ToolName(providerID)
	if name == "synthetic" {
		_, c, _ := strings.Cut(providerID, "/")
		name = provider.DefaultToolName(travel.Capability(c))
	}
	switch name {
	case provider.ToolFlight:
		return "flights", extractFlights
	case provider.ToolPOI:
		return "poi", extractActivities
	case provider.ToolMaps:
		return "directions", extractDirections
	case provider.ToolSearch:
		return "search", extractSearch
	case provider.ToolReservation:
		return "reservation", extractReservation
	}
	return "", nil
}

// records decodes a JSON array of objects, a single object, or a synthetic
// envelope wrapping either
func records(output string) ([]map[string]any, error) {
	raw := []byte(strings.TrimSpace(output))
	if env, ok := synthetic.Decode(output); ok {
		raw = env.Results
	}

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil, errNoRecords
		}
		return list, nil
	}
	var one map[string]any
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode tool output: %w", err)
	}
	return []map[string]any{one}, nil
}

func field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func extractFlights(c *TripCache, _ string, step ToolStep, _ time.Time) error {
	flights, err := records(step.ToolOutput)
	if err != nil {
		return err
	}
	if len(flights) > maxFlightsPerStep {
		flights = flights[:maxFlightsPerStep]
	}
	d := &c.TripDetails
	for _, f := range flights {
		rec := FlightRecord{
			From:          field(f, "departureAirport", "origin", "from"),
			To:            field(f, "arrivalAirport", "destination", "to"),
			DepartureDate: field(f, "departureDate", "departureTime", "date"),
			ArrivalDate:   field(f, "arrivalDate", "arrivalTime"),
			Airline:       field(f, "airline", "carrier"),
			Price:         field(f, "price", "totalPrice"),
			Duration:      field(f, "duration"),
		}
		if rec == (FlightRecord{}) {
			continue
		}
		d.Flights = appendUnique(d.Flights, rec)
		if city := field(f, "departureCity"); city != "" {
			d.Destinations = appendUnique(d.Destinations, city)
		}
		if city := field(f, "arrivalCity"); city != "" {
			d.Destinations = appendUnique(d.Destinations, city)
		}
	}
	return nil
}

func extractActivities(c *TripCache, _ string, step ToolStep, _ time.Time) error {
	pois, err := records(step.ToolOutput)
	if err != nil {
		return err
	}
	if len(pois) > maxActivitiesPerStep {
		pois = pois[:maxActivitiesPerStep]
	}
	d := &c.TripDetails
	for _, p := range pois {
		rec := ActivityRecord{
			Name:        field(p, "name", "title"),
			Type:        field(p, "type", "category"),
			Location:    field(p, "location", "locationString", "address"),
			Rating:      field(p, "rating"),
			Description: field(p, "description"),
		}
		if rec.Name == "" {
			continue
		}
		if rec.Type == "" {
			rec.Type = "attraction"
		}
		d.Activities = appendUnique(d.Activities, rec)
		if rec.Location != "" {
			d.Destinations = appendUnique(d.Destinations, rec.Location)
		}
	}
	return nil
}

func extractDirections(c *TripCache, _ string, step ToolStep, _ time.Time) error {
	var note string
	if routes, err := records(step.ToolOutput); err == nil {
		r := routes[0]
		origin, destination := field(r, "origin", "from"), field(r, "destination", "to")
		if origin == "" || destination == "" {
			return fmt.Errorf("directions output has no route ends")
		}
		note = fmt.Sprintf("Directions %s → %s", origin, destination)
		var parts []string
		for _, v := range []string{field(r, "distance"), field(r, "duration")} {
			if v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) > 0 {
			note += ": " + strings.Join(parts, ", ")
		}
		if summary := field(r, "summary"); summary != "" {
			note += " via " + summary
		}
	} else {
		line := firstLine(step.ToolOutput)
		if line == "" {
			return errNoRecords
		}
		note = "Directions: " + line
	}
	if len(note) > maxNoteLength {
		note = note[:maxNoteLength]
	}
	c.TripDetails.Notes = appendUnique(c.TripDetails.Notes, note)
	return nil
}

// extractSearch mines the user's query for a destination and travel dates
func extractSearch(c *TripCache, query string, _ ToolStep, now time.Time) error {
	d := &c.TripDetails
	q := extract.Extract(travel.CapabilityGeneral, query, now)
	destination := q.Destination
	if destination == "" {
		destination = extract.POIDestination(query)
	}
	if len(destination) > 3 {
		d.Destinations = appendUnique(d.Destinations, titleCase(destination))
	}
	if _, ok := d.Dates["travel_dates"]; !ok && q.Date != "" {
		d.Dates["travel_dates"] = q.Date
	}
	if m, ok := extract.Month(query); ok {
		if _, set := d.Dates["travel_month"]; !set {
			d.Dates["travel_month"] = m.String()
		}
	}
	return nil
}

func extractReservation(c *TripCache, _ string, step ToolStep, now time.Time) error {
	if step.Status != "" && step.Status != string(provider.StatusOK) {
		return nil
	}
	req, err := provider.ParseReservation(step.ToolInput)
	if err != nil {
		return err
	}

	details := req.Details
	rec := ReservationRecord{
		ServiceType:  req.ServiceType,
		ServiceName:  req.ServiceName,
		Status:       "call completed",
		Date:         details.Date,
		Time:         details.Time,
		NumPeople:    int(details.NumPeople),
		Details:      details.SpecialRequests,
		Confirmation: "Requested by phone on " + now.Format("2006-01-02"),
	}
	for _, line := range strings.Split(step.ToolOutput, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "confirmation") || strings.Contains(lower, "reference") {
			rec.Confirmation = strings.TrimSpace(line)
			break
		}
	}

	d := &c.TripDetails
	d.Reservations = appendUnique(d.Reservations, rec)
	if strings.EqualFold(req.ServiceType, provider.ServiceHotel) {
		d.Accommodations = appendUnique(d.Accommodations, AccommodationRecord{
			Name:         req.ServiceName,
			Location:     details.Destination,
			CheckIn:      details.Date,
			Duration:     details.Duration,
			Confirmation: rec.Confirmation,
		})
	}
	return nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

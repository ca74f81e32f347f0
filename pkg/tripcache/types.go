package tripcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-assistant-be/pkg/travel"
)

// ErrCorrupt marks a stored document that exists but cannot be decoded. It
// also matches travel.ErrPersistence.
var ErrCorrupt = fmt.Errorf("%w: corrupt trip cache document", travel.ErrPersistence)

// TripCache is the per-user document of trip facts and interaction history
type TripCache struct {
	UserID      string        `json:"user_id"`
	LastUpdated time.Time     `json:"last_updated"`
	TripDetails TripDetails   `json:"trip_details"`
	Queries     []QueryRecord `json:"queries"`
}

// TripDetails lists never hold two identical entries
type TripDetails struct {
	Destinations   []string              `json:"destinations"`
	Dates          map[string]string     `json:"dates"`
	Flights        []FlightRecord        `json:"flights"`
	Accommodations []AccommodationRecord `json:"accommodations"`
	Activities     []ActivityRecord      `json:"activities"`
	Reservations   []ReservationRecord   `json:"reservations"`
	Notes          []string              `json:"notes"`
}

type FlightRecord struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureDate string `json:"departure_date"`
	ArrivalDate   string `json:"arrival_date"`
	Airline       string `json:"airline"`
	Price         string `json:"price"`
	Duration      string `json:"duration"`
}

type AccommodationRecord struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	CheckIn      string `json:"check_in"`
	Duration     string `json:"duration"`
	Price        string `json:"price"`
	Confirmation string `json:"confirmation"`
}

type ActivityRecord struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
}

type ReservationRecord struct {
	ServiceType  string `json:"service_type"`
	ServiceName  string `json:"service_name"`
	Status       string `json:"status"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	NumPeople    int    `json:"num_people"`
	Details      string `json:"details"`
	Confirmation string `json:"confirmation"`
}

// QueryRecord is one entry of the append-only interaction log
type QueryRecord struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Query     string     `json:"query"`
	Response  string     `json:"response"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

type ToolCall struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Status string `json:"status,omitempty"`
}

// New returns an empty document for userID
func New(userID string, now time.Time) *TripCache {
	return &TripCache{
		UserID:      userID,
		LastUpdated: now,
		TripDetails: TripDetails{
			Destinations:   []string{},
			Dates:          map[string]string{},
			Flights:        []FlightRecord{},
			Accommodations: []AccommodationRecord{},
			Activities:     []ActivityRecord{},
			Reservations:   []ReservationRecord{},
			Notes:          []string{},
		},
		Queries: []QueryRecord{},
	}
}

// normalize fills nil collections left by older or hand-edited documents
func (c *TripCache) normalize() {
	d := &c.TripDetails
	if d.Dates == nil {
		d.Dates = map[string]string{}
	}
	if d.Destinations == nil {
		d.Destinations = []string{}
	}
	if d.Flights == nil {
		d.Flights = []FlightRecord{}
	}
	if d.Accommodations == nil {
		d.Accommodations = []AccommodationRecord{}
	}
	if d.Activities == nil {
		d.Activities = []ActivityRecord{}
	}
	if d.Reservations == nil {
		d.Reservations = []ReservationRecord{}
	}
	if d.Notes == nil {
		d.Notes = []string{}
	}
	if c.Queries == nil {
		c.Queries = []QueryRecord{}
	}
}

// Store persists whole documents. Load returns nil, nil when the user has
// no document; a document that cannot be decoded yields ErrCorrupt.
type Store interface {
	Load(ctx context.Context, userID string) (*TripCache, error)
	Save(ctx context.Context, c *TripCache) error
	Delete(ctx context.Context, userID string) error
	DeleteAll(ctx context.Context) error
}

func isCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// appendUnique adds v unless an identical entry is already present
func appendUnique[T comparable](list []T, v T) []T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

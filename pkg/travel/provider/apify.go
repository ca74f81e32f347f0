package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trip-assistant-be/pkg/travel"
)

// Wait budgets per capability
const (
	POITimeout    = 60 * time.Second
	FlightTimeout = 120 * time.Second
	MapsTimeout   = 180 * time.Second
)

// ActorAdapter runs one actor for one capability
type ActorAdapter struct {
	id         string
	capability travel.Capability
	actor      string
	timeout    time.Duration
	client     *ActorClient
	input      func(Params) (any, error)
}

var _ Adapter = &ActorAdapter{}

func (a *ActorAdapter) ID() string                    { return a.id }
func (a *ActorAdapter) Capability() travel.Capability { return a.capability }

// WithTimeout overrides the capability wait budget
func (a *ActorAdapter) WithTimeout(d time.Duration) *ActorAdapter {
	a.timeout = d
	return a
}

func (a *ActorAdapter) IsAvailable() bool {
	return a.client != nil && a.client.Token != ""
}

func (a *ActorAdapter) Execute(ctx context.Context, params Params) Result {
	start := time.Now()
	input, err := a.input(params)
	if err != nil {
		return FromError(a.id, err, time.Since(start))
	}

	items, err := a.client.Run(ctx, a.actor, input, a.timeout)
	if errors.Is(err, errNoItems) {
		return Failed(a.id, StatusNoData, err.Error(), time.Since(start))
	}
	if err != nil {
		return FromError(a.id, err, time.Since(start))
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return FromError(a.id, err, time.Since(start))
	}
	return OK(a.id, string(payload), time.Since(start))
}

// NewFlightFinder searches flights with the flight-finder actor
func NewFlightFinder(client *ActorClient) *ActorAdapter {
	return &ActorAdapter{
		id:         ToolFlight + "/flight-finder",
		capability: travel.CapabilityFlight,
		actor:      "arindam_1729/flight-finder",
		timeout:    FlightTimeout,
		client:     client,
		input: func(p Params) (any, error) {
			from, to, err := routeEnds(p)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"fromLocation":  from,
				"toLocation":    to,
				"date":          p.Date,
				"directFlights": false,
				"currency":      "USD",
			}, nil
		},
	}
}

// NewSkyscannerScraper is the second flight backend
func NewSkyscannerScraper(client *ActorClient) *ActorAdapter {
	return &ActorAdapter{
		id:         ToolFlight + "/skyscanner-scraper",
		capability: travel.CapabilityFlight,
		actor:      "jupri/skyscanner-flight",
		timeout:    FlightTimeout,
		client:     client,
		input: func(p Params) (any, error) {
			from, to, err := routeEnds(p)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"origin":      from,
				"destination": to,
				"departDate":  p.Date,
				"adults":      1,
				"currency":    "USD",
			}, nil
		},
	}
}

// NewTripadvisor looks up attractions and restaurants for a location
func NewTripadvisor(client *ActorClient) *ActorAdapter {
	return &ActorAdapter{
		id:         ToolPOI + "/tripadvisor",
		capability: travel.CapabilityPOI,
		actor:      "maxcopell/tripadvisor",
		timeout:    POITimeout,
		client:     client,
		input: func(p Params) (any, error) {
			location := p.Destination
			if location == "" {
				location = p.Query
			}
			if location == "" {
				return nil, fmt.Errorf("location is required: %w", travel.ErrParseFailure)
			}
			return map[string]any{
				"locationFullName":   location,
				"includeAttractions": true,
				"includeRestaurants": true,
				"includeHotels":      false,
				"maxItems":           actorDatasetLimit,
			}, nil
		},
	}
}

// NewMapsDirections fetches a route from the maps actor
func NewMapsDirections(client *ActorClient) *ActorAdapter {
	return &ActorAdapter{
		id:         ToolMaps + "/google-maps-directions",
		capability: travel.CapabilityDirections,
		actor:      "lukaskrivka/google-maps-directions",
		timeout:    MapsTimeout,
		client:     client,
		input: func(p Params) (any, error) {
			if p.Origin == "" || p.Destination == "" {
				return nil, fmt.Errorf("origin and destination are required: %w", travel.ErrParseFailure)
			}
			return map[string]any{
				"origin":      p.Origin,
				"destination": p.Destination,
				"travelMode":  "DRIVING",
			}, nil
		},
	}
}

// routeEnds prefers airport codes over place names
func routeEnds(p Params) (string, string, error) {
	from, to := p.OriginCode, p.DestinationCode
	if from == "" {
		from = p.Origin
	}
	if to == "" {
		to = p.Destination
	}
	if from == "" || to == "" {
		return "", "", fmt.Errorf("origin and destination are required: %w", travel.ErrParseFailure)
	}
	return from, to, nil
}

package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"trip-assistant-be/pkg/travel"
)

// Service types with dedicated call scripts
const (
	ServiceRestaurant  = "restaurant"
	ServiceHotel       = "hotel"
	ServiceAttraction  = "attraction"
	ServiceTravelAgent = "travel_agent"
	ServiceOther       = "other"
)

// PartySize accepts both 4 and "4" since model output is not consistent
type PartySize int

func (p *PartySize) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(strings.Fields(s)[0])
	if err != nil {
		return fmt.Errorf("party size %q: %w", s, err)
	}
	*p = PartySize(n)
	return nil
}

type ReservationDetails struct {
	Date              string    `json:"date,omitempty"`
	Time              string    `json:"time,omitempty"`
	NumPeople         PartySize `json:"num_people,omitempty"`
	SpecialRequests   string    `json:"special_requests,omitempty"`
	Duration          string    `json:"duration,omitempty"`
	Destination       string    `json:"destination,omitempty"`
	ConfirmationEmail string    `json:"confirmation_email,omitempty" validate:"omitempty,email"`
}

// ReservationRequest is the validated input of a reservation call
type ReservationRequest struct {
	ServiceType string             `json:"service_type" validate:"required"`
	ServiceName string             `json:"service_name" validate:"required"`
	PhoneNumber string             `json:"phone_number" validate:"required"`
	UserName    string             `json:"user_name" validate:"required"`
	Details     ReservationDetails `json:"reservation_details"`
}

var reservationValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate reports every missing required field. The error wraps
// travel.ErrValidation.
func (r *ReservationRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("reservation details are missing: %w", travel.ErrValidation)
	}
	err := reservationValidator.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", travel.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("missing or invalid field(s) %s: %w", strings.Join(fields, ", "), travel.ErrValidation)
}

// ParseReservation decodes a reservation JSON document
func ParseReservation(raw string) (*ReservationRequest, error) {
	var req ReservationRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, fmt.Errorf("reservation details must be valid JSON: %w", travel.ErrValidation)
	}
	return &req, nil
}

// CallScript renders the instructions the voice agent follows on the call
func CallScript(r *ReservationRequest) string {
	d := r.Details
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a travel assistant calling to make a reservation on behalf of %s. "+
		"Be professional, direct, and friendly. Speak naturally and get the task done efficiently. "+
		"If you can't make a reservation, apologize politely and explain why.\n\n", r.UserName)

	switch r.ServiceType {
	case ServiceRestaurant:
		people := partyOr(d.NumPeople, 2)
		fmt.Fprintf(&sb, "Your goal is to make a reservation at %s for %d people on %s at %s.\n",
			r.ServiceName, people, valueOr(d.Date, "today"), valueOr(d.Time, "7:00 PM"))
		if d.SpecialRequests != "" {
			fmt.Fprintf(&sb, "Mention these special requests: %s\n", d.SpecialRequests)
		}
		fmt.Fprintf(&sb, "\nThe reservation should be under the name: %s\n", r.UserName)
		sb.WriteString("\nIf they ask for a callback number, explain that you're calling on behalf of a client and cannot provide a direct number.")
		sb.WriteString("\nAfter making the reservation, confirm the date, time and party size, and ask if any deposit is required.")

	case ServiceHotel:
		fmt.Fprintf(&sb, "Your goal is to book a room at %s for %d guest(s).\n", r.ServiceName, partyOr(d.NumPeople, 1))
		fmt.Fprintf(&sb, "The check-in date would be %s", d.Date)
		if d.Duration != "" {
			fmt.Fprintf(&sb, " for a duration of %s.\n", d.Duration)
		} else {
			sb.WriteString(".\n")
		}
		if d.SpecialRequests != "" {
			fmt.Fprintf(&sb, "Mention these special requests: %s\n", d.SpecialRequests)
		}
		fmt.Fprintf(&sb, "\nThe reservation should be under the name: %s\n", r.UserName)
		sb.WriteString("\nConfirm availability, pricing details, and any booking requirements such as deposit or ID required at check-in.")

	case ServiceAttraction:
		fmt.Fprintf(&sb, "Your goal is to reserve tickets for %s for %d person(s).\n", r.ServiceName, partyOr(d.NumPeople, 1))
		if d.Date != "" {
			fmt.Fprintf(&sb, "The visit date would be %s", d.Date)
			if d.Time != "" {
				fmt.Fprintf(&sb, " at around %s.\n", d.Time)
			} else {
				sb.WriteString(".\n")
			}
		}
		if d.SpecialRequests != "" {
			fmt.Fprintf(&sb, "Mention these special requests: %s\n", d.SpecialRequests)
		}
		fmt.Fprintf(&sb, "\nThe reservation should be under the name: %s\n", r.UserName)
		sb.WriteString("\nConfirm availability, pricing, any booking requirements, and what the tickets include.")

	case ServiceTravelAgent:
		fmt.Fprintf(&sb, "Your goal is to gather information about travel packages or services from %s.\n", r.ServiceName)
		sb.WriteString("Specifically, ask about:\n")
		if d.Destination != "" {
			fmt.Fprintf(&sb, "- Travel to %s\n", d.Destination)
		}
		if d.Date != "" {
			fmt.Fprintf(&sb, "- For the date(s): %s\n", d.Date)
		}
		if d.NumPeople > 0 {
			fmt.Fprintf(&sb, "- For %d person(s)\n", d.NumPeople)
		}
		if d.SpecialRequests != "" {
			fmt.Fprintf(&sb, "- With these requirements: %s\n", d.SpecialRequests)
		}
		fmt.Fprintf(&sb, "\nMention that you're calling on behalf of %s who is exploring options for an upcoming trip.\n", r.UserName)
		sb.WriteString("\nIf they can provide package information, ask about pricing, availability, and booking procedures.")

	default:
		fmt.Fprintf(&sb, "Your goal is to make an inquiry about services at %s.\n", r.ServiceName)
		fmt.Fprintf(&sb, "You're calling on behalf of %s.\n", r.UserName)
		if d.SpecialRequests != "" {
			fmt.Fprintf(&sb, "Mention these details: %s\n", d.SpecialRequests)
		}
		sb.WriteString("\nFind out about availability and booking procedures for their services.")
	}
	return sb.String()
}

// referencePrefix labels local reference numbers per service type
func referencePrefix(serviceType string) string {
	switch serviceType {
	case ServiceRestaurant:
		return "RES"
	case ServiceHotel:
		return "HTL"
	case ServiceAttraction:
		return "ATT"
	case ServiceTravelAgent:
		return "TRV"
	default:
		return "SVC"
	}
}

// Reference derives a short tracking reference from the provider call id
func Reference(serviceType, callID string) string {
	var tail []rune
	for _, r := range strings.ToUpper(callID) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			tail = append(tail, r)
		}
	}
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return referencePrefix(serviceType) + "-" + string(tail)
}

func partyOr(n PartySize, fallback int) int {
	if n > 0 {
		return int(n)
	}
	return fallback
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

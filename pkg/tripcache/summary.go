package tripcache

import (
	"fmt"
	"sort"
	"strings"
)

const (
	NoDataMessage        = "I don't have enough information to create a summary for your trip. Please ask me about your destinations, flights, or activities first."
	NoDestinationMessage = "I don't have any destination information for your trip yet. Please tell me where you'd like to go."

	summaryFlights    = 3
	summaryActivities = 5
)

// Summarize renders the cached trip facts as a markdown message
func Summarize(c *TripCache) string {
	if c == nil {
		return NoDataMessage
	}
	d := c.TripDetails
	if len(d.Destinations) == 0 {
		return NoDestinationMessage
	}

	var sb strings.Builder
	sb.WriteString("# 🌍 Your Trip Summary\n\n")
	fmt.Fprintf(&sb, "## 📍 Destinations\n%s\n\n", strings.Join(d.Destinations, ", "))

	if len(d.Dates) > 0 {
		keys := make([]string, 0, len(d.Dates))
		for k := range d.Dates {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ReplaceAll(k, "_", " "), d.Dates[k]))
		}
		fmt.Fprintf(&sb, "## 📅 Travel Dates\n%s\n\n", strings.Join(parts, ", "))
	}

	if len(d.Flights) > 0 {
		sb.WriteString("## ✈️ Flight Options\n\n")
		for i, f := range head(d.Flights, summaryFlights) {
			fmt.Fprintf(&sb, "%d. %s: %s → %s\n", i+1, orUnknown(f.Airline, "airline"), f.From, f.To)
			fmt.Fprintf(&sb, "   - Departure: %s\n", orUnknown(f.DepartureDate, "date"))
			fmt.Fprintf(&sb, "   - Duration: %s\n", orUnknown(f.Duration, "duration"))
			fmt.Fprintf(&sb, "   - Price: %s\n\n", orUnknown(f.Price, "price"))
		}
	}

	if len(d.Activities) > 0 {
		sb.WriteString("## 🎯 Activities & Attractions\n\n")
		for i, a := range head(d.Activities, summaryActivities) {
			fmt.Fprintf(&sb, "%d. %s", i+1, a.Name)
			if a.Rating != "" {
				fmt.Fprintf(&sb, " (⭐ %s)", a.Rating)
			}
			if a.Type != "" {
				fmt.Fprintf(&sb, " - %s", a.Type)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(d.Accommodations) > 0 {
		sb.WriteString("## 🏨 Accommodations\n\n")
		for _, a := range d.Accommodations {
			fmt.Fprintf(&sb, "- %s", a.Name)
			if a.CheckIn != "" {
				fmt.Fprintf(&sb, ", check-in %s", a.CheckIn)
			}
			if a.Duration != "" {
				fmt.Fprintf(&sb, " for %s", a.Duration)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(d.Reservations) > 0 {
		sb.WriteString("## 📋 Reservations\n\n")
		for _, r := range d.Reservations {
			fmt.Fprintf(&sb, "- %s (%s): %s", r.ServiceName, r.ServiceType, r.Status)
			if r.Date != "" {
				fmt.Fprintf(&sb, ", %s", r.Date)
			}
			if r.Time != "" {
				fmt.Fprintf(&sb, " at %s", r.Time)
			}
			if r.NumPeople > 0 {
				fmt.Fprintf(&sb, ", %d people", r.NumPeople)
			}
			if r.Confirmation != "" {
				fmt.Fprintf(&sb, "\n  %s", r.Confirmation)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(d.Notes) > 0 {
		sb.WriteString("## 📝 Notes\n\n")
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func orUnknown(s, what string) string {
	if s == "" {
		return "Unknown " + what
	}
	return s
}

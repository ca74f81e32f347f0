package tripcache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, NoDataMessage, Summarize(nil))
	assert.Equal(t, NoDestinationMessage, Summarize(New("1", refNow)))
}

func TestSummarizeSections(t *testing.T) {
	c := New("1", refNow)
	d := &c.TripDetails
	d.Destinations = []string{"San Francisco", "Fresno"}
	d.Dates["travel_month"] = "May"
	d.Dates["travel_dates"] = "2026-11-02"
	for _, a := range []string{"A1", "A2", "A3", "A4"} {
		d.Flights = append(d.Flights, FlightRecord{From: "SFO", To: "FAT", Airline: a, Price: "$129"})
	}
	for i := 0; i < 7; i++ {
		d.Activities = append(d.Activities, ActivityRecord{Name: "Spot " + string(rune('A'+i)), Rating: "4.5", Type: "park"})
	}
	d.Reservations = []ReservationRecord{{
		ServiceType: "restaurant", ServiceName: "Chez Panisse", Status: "call completed",
		Date: "2026-10-20", Time: "19:00", NumPeople: 2, Confirmation: "Reference: RES-1",
	}}
	d.Notes = []string{"Bring layers"}

	got := Summarize(c)

	assert.True(t, strings.HasPrefix(got, "# 🌍 Your Trip Summary"))
	assert.Contains(t, got, "San Francisco, Fresno")
	assert.Contains(t, got, "travel dates: 2026-11-02, travel month: May")
	assert.Contains(t, got, "3. A3: SFO → FAT")
	assert.NotContains(t, got, "A4")
	assert.Contains(t, got, "   - Departure: Unknown date")
	assert.Contains(t, got, "5. Spot E (⭐ 4.5) - park")
	assert.NotContains(t, got, "Spot F")
	assert.Contains(t, got, "- Chez Panisse (restaurant): call completed, 2026-10-20 at 19:00, 2 people\n  Reference: RES-1")
	assert.True(t, strings.HasSuffix(got, "- Bring layers"))
	assert.NotContains(t, got, "Accommodations")
}

package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/pkg/travel"
)

// Thursday
var refNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func TestFlightExplicitFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlightParams
	}{
		{
			name:  "canonical",
			input: "from: San Francisco, to: Fresno, date: 2026-11-02",
			want:  FlightParams{Origin: "San Francisco", Destination: "Fresno", Date: "2026-11-02"},
		},
		{
			name:  "extra whitespace",
			input: "from:    San Francisco  ,   to:  Fresno ,date:   next friday  ",
			want:  FlightParams{Origin: "San Francisco", Destination: "Fresno", Date: "next friday"},
		},
		{
			name:  "upper case keys",
			input: "FROM: JFK, TO: LHR, DATE: 12/24/2026",
			want:  FlightParams{Origin: "JFK", Destination: "LHR", Date: "12/24/2026"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flight(tt.input, refNow)
			assert.Equal(t, tt.want.Origin, got.Origin)
			assert.Equal(t, tt.want.Destination, got.Destination)
			assert.Equal(t, tt.want.Date, got.Date)
		})
	}
}

func TestFlightNaturalLanguage(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantOrigin      string
		wantDestination string
	}{
		{"from then to", "flights from San Francisco to Fresno next week", "san francisco", "fresno"},
		{"to then from", "I want to fly to Paris from Tokyo tomorrow", "tokyo", "paris"},
		{"bare to", "Berlin to Rome on May 3", "berlin", "rome"},
		{"travel verb", "I'm traveling to Yosemite", "", "yosemite"},
		{"travel verb with from", "going to London, leaving from new york", "new york", "london"},
		{"landmark override", "plan a trip to yosemite national park", "san francisco", "mariposa"},
		{"nothing", "hello there", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flight(tt.input, refNow)
			assert.Equal(t, tt.wantOrigin, got.Origin)
			assert.Equal(t, tt.wantDestination, got.Destination)
		})
	}
}

func TestFlightEndToEnd(t *testing.T) {
	got := Flight("flights from San Francisco to Fresno next week", refNow)

	assert.Equal(t, "san francisco", got.Origin)
	assert.Equal(t, "fresno", got.Destination)
	assert.Equal(t, "2026-10-22", got.Date)
	assert.Equal(t, "SFO", got.OriginCode)
	assert.Equal(t, "FAT", got.DestinationCode)
	assert.True(t, got.Complete())
	assert.Equal(t, "from: san francisco, to: fresno, date: 2026-10-22", got.Canonical())
}

func TestFlightNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "to", "from", "from to", "to from", "from: ", ",,,", "to:", "in 0 days"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Flight(in, refNow) }, in)
		assert.NotPanics(t, func() { Directions(in) }, in)
		assert.NotPanics(t, func() { Extract(travel.CapabilityGeneral, in, refNow) }, in)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		now   time.Time
		want  string
	}{
		{"iso", "leaving 2026-12-24", refNow, "2026-12-24"},
		{"us full", "on 12/24/2026", refNow, "2026-12-24"},
		{"us short", "on 12/24", refNow, "2026-12-24"},
		{"month day upcoming", "December 1", refNow, "2026-12-01"},
		{"month day passed rolls", "May 15", refNow, "2027-05-15"},
		{"day month with year", "15 May 2026", refNow, "2026-05-15"},
		{"month day with year", "May 15, 2028", refNow, "2028-05-15"},
		{"tomorrow", "tomorrow please", refNow, "2026-10-16"},
		{"in n days", "in 3 days", refNow, "2026-10-18"},
		{"in word weeks", "in two weeks", refNow, "2026-10-29"},
		{"next week", "next week", refNow, "2026-10-22"},
		{"next month", "next month", refNow, "2026-11-15"},
		{"this weekend", "this weekend", refNow, "2026-10-17"},
		{"next weekend", "next weekend", refNow, "2026-10-24"},
		{"weekend saturday afternoon", "weekend", time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC), "2026-10-24"},
		{"weekend saturday morning", "weekend", time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), "2026-10-17"},
		{"weekend sunday", "weekend", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), "2026-10-24"},
		{"ordinal week passed month", "2nd week of May", refNow, "2027-05-08"},
		{"ordinal week capped", "fifth week of december", refNow, "2026-12-28"},
		{"nothing", "sometime", refNow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.input, tt.now))
		})
	}
}

func TestRelativeDatesAreInTheFuture(t *testing.T) {
	nows := []time.Time{
		time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC),  // Monday
		time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC), // Thursday
		time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC), // Friday
		time.Date(2026, 10, 17, 13, 0, 0, 0, time.UTC), // Saturday afternoon
		time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC),  // Sunday
		time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC), // year end
	}
	phrases := []string{"next week", "in 3 days", "this weekend", "next month", "tomorrow"}

	for _, now := range nows {
		today := truncateDay(now)
		for _, phrase := range phrases {
			got := Date(phrase, now)
			require.NotEmpty(t, got, phrase)
			d, err := time.Parse(dateLayout, got)
			require.NoError(t, err)
			assert.True(t, d.After(today), "%s from %s resolved to %s", phrase, now, got)
			if phrase == "this weekend" {
				assert.Equal(t, time.Saturday, d.Weekday(), "%s from %s", phrase, now)
			}
		}
	}
}

func TestAirportCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"sf", "SFO", true},
		{"San Francisco", "SFO", true},
		{"  sfo ", "SFO", true},
		{"fresno", "FAT", true},
		{"Yosemite", "MPI", true},
		{"nyc", "JFK", true},
		{"la", "LAX", true},
		{"ord", "ORD", true},
		{"springfield", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := AirportCode(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestDirections(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantOrigin      string
		wantDestination string
	}{
		{"directions from", "Directions from Union Square to Golden Gate Park", "union square", "golden gate park"},
		{"how to get", "How do I get from SF to Yosemite?", "sf", "yosemite"},
		{"route", "route from Paris to Lyon", "paris", "lyon"},
		{"trailing directions", "San Jose to Oakland directions", "san jose", "oakland"},
		{"driving", "driving from Fresno to Mariposa tomorrow", "fresno", "mariposa"},
		{"none", "what's the weather", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, d := Directions(tt.input)
			assert.Equal(t, tt.wantOrigin, o)
			assert.Equal(t, tt.wantDestination, d)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("poi", func(t *testing.T) {
		q := Extract(travel.CapabilityPOI, "Things to do in Paris this weekend", refNow)
		assert.Equal(t, travel.CapabilityPOI, q.Capability)
		assert.Equal(t, "paris", q.Destination)
		assert.Equal(t, "2026-10-17", q.Date)
		assert.Equal(t, "Things to do in Paris this weekend", q.RawText)
	})

	t.Run("flight with preferences", func(t *testing.T) {
		q := Extract(travel.CapabilityFlight, "cheap direct flights from San Francisco to Fresno next week", refNow)
		assert.Equal(t, "san francisco", q.Origin)
		assert.Equal(t, "fresno", q.Destination)
		assert.Equal(t, "2026-10-22", q.Date)
		assert.Equal(t, []string{"cheap", "direct"}, q.Preferences)
	})

	t.Run("defaults to general", func(t *testing.T) {
		q := Extract("", "hi", refNow)
		assert.Equal(t, travel.CapabilityGeneral, q.Capability)
		assert.False(t, q.HasRoute())
	})
}

func TestMonth(t *testing.T) {
	m, ok := Month("Thinking about Lisbon in Sept")
	assert.True(t, ok)
	assert.Equal(t, time.September, m)

	_, ok = Month("maybelline")
	assert.False(t, ok)
}

func TestWeekendOnSaturday(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		now := time.Date(2026, 10, 17, hour, 30, 0, 0, time.UTC)
		got := Date("this weekend", now)
		d, err := time.Parse(dateLayout, got)
		require.NoError(t, err)
		assert.Equal(t, time.Saturday, d.Weekday())
		if hour < 12 {
			assert.Equal(t, "2026-10-17", got, "hour %d", hour)
		} else {
			assert.Equal(t, "2026-10-24", got, "hour %d", hour)
		}
	}
}

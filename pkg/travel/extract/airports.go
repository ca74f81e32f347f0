package extract

import "strings"

// airportAliases maps colloquial city names onto the airport codes the flight
// providers expect. Only the flight capability consults this table.
var airportAliases = map[string]string{
	"sf":             "SFO",
	"sfo":            "SFO",
	"san francisco":  "SFO",
	"san fran":       "SFO",
	"bay area":       "SFO",
	"oakland":        "OAK",
	"san jose":       "SJC",
	"fresno":         "FAT",
	"mariposa":       "MPI",
	"yosemite":       "MPI",
	"new york":       "JFK",
	"new york city":  "JFK",
	"nyc":            "JFK",
	"los angeles":    "LAX",
	"la":             "LAX",
	"seattle":        "SEA",
	"chicago":        "ORD",
	"boston":         "BOS",
	"london":         "LHR",
	"paris":          "CDG",
	"tokyo":          "HND",
	"berlin":         "BER",
	"rome":           "FCO",
	"sacramento":     "SMF",
	"las vegas":      "LAS",
	"vegas":          "LAS",
	"san diego":      "SAN",
	"washington":     "IAD",
	"washington dc":  "IAD",
	"miami":          "MIA",
	"denver":         "DEN",
	"portland":       "PDX",
	"honolulu":       "HNL",
	"mexico city":    "MEX",
	"toronto":        "YYZ",
	"vancouver":      "YVR",
	"amsterdam":      "AMS",
	"madrid":         "MAD",
	"barcelona":      "BCN",
	"frankfurt":      "FRA",
	"munich":         "MUC",
	"dubai":          "DXB",
	"singapore":      "SIN",
	"hong kong":      "HKG",
	"sydney":         "SYD",
	"seoul":          "ICN",
	"bangkok":        "BKK",
	"lisbon":         "LIS",
	"dublin":         "DUB",
	"zurich":         "ZRH",
	"istanbul":       "IST",
	"osaka":          "KIX",
	"kyoto":          "KIX",
	"milan":          "MXP",
	"venice":         "VCE",
	"athens":         "ATH",
	"cancun":         "CUN",
	"reno":           "RNO",
	"monterey":       "MRY",
	"santa barbara":  "SBA",
	"palm springs":   "PSP",
	"salt lake city": "SLC",
}

// AirportCode returns the canonical code for a city name or alias. A value
// that already looks like a three-letter code is returned upper-cased.
func AirportCode(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if code, ok := airportAliases[key]; ok {
		return code, true
	}
	if len(key) == 3 && isLetters(key) {
		return strings.ToUpper(key), true
	}
	return "", false
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

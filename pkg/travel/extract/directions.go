package extract

import (
	"regexp"
	"strings"
)

// directionPatterns are tried in order; the first with two non-empty
// captures wins. Each captures origin then destination.
var directionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdirections?\s+from\s+(.+?)\s+to\s+(.+)`),
	regexp.MustCompile(`\bhow\s+(?:to|do\s+i|can\s+i|would\s+i|should\s+i)\s+get\s+from\s+(.+?)\s+to\s+(.+)`),
	regexp.MustCompile(`\broute\s+from\s+(.+?)\s+to\s+(.+)`),
	regexp.MustCompile(`(.+?)\s+to\s+(.+?)\s+directions?\b`),
	regexp.MustCompile(`\b(?:driving|drive)\s+from\s+(.+?)\s+to\s+(.+)`),
}

// Directions extracts an origin/destination pair from a directions request.
// Both values are empty when no pattern matched.
func Directions(text string) (origin, destination string) {
	s := normalize(text)
	for i, re := range directionPatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		o := m[1]
		if i == 3 {
			o = trailingPlace(o)
		}
		origin, destination = cleanPlace(o), cleanPlace(m[2])
		if origin != "" && destination != "" {
			return origin, destination
		}
	}
	return "", ""
}

// trailingPlace keeps at most three words at the end of s, stopping at the
// first generic word such as "show" or "get".
func trailingPlace(s string) string {
	words := strings.Fields(s)
	var kept []string
	for i := len(words) - 1; i >= 0 && len(kept) < 3; i-- {
		if genericStopWords[words[i]] || words[i] == "give" {
			break
		}
		kept = append([]string{words[i]}, kept...)
	}
	return strings.Join(kept, " ")
}

package extract

import (
	"strings"
	"unicode"
)

// placeTerminators end a captured place name. The first three are the
// classic ones; the rest trim date and filler phrases that trail a city.
var placeTerminators = []string{
	" on ", " in ", " next ", " this ", " for ", " at ", " around ",
	" departing ", " leaving ", " returning ", " by ", " with ", " and ",
	" tomorrow", " today", " tonight", " please",
}

var placeFillers = map[string]bool{
	"next": true, "week": true, "weekend": true, "month": true,
	"tomorrow": true, "today": true, "please": true, "flights": true,
	"flight": true, "trip": true, "asap": true, "soon": true,
}

var leadingFillers = map[string]bool{
	"the": true, "a": true, "an": true,
}

// cleanPlace trims a raw capture down to the place name it starts with
func cleanPlace(raw string) string {
	s := " " + strings.TrimSpace(raw) + " "
	cut := len(s)
	for _, t := range placeTerminators {
		if i := strings.Index(s, t); i >= 0 && i < cut {
			cut = i
		}
	}
	if i := strings.IndexAny(s, ",.?!;:()"); i >= 0 && i < cut {
		cut = i
	}
	s = s[:cut]

	words := strings.Fields(s)
	end := len(words)
	for i, w := range words {
		if hasDigit(w) || isMonthWord(w) && i > 0 {
			end = i
			break
		}
	}
	words = words[:end]

	for len(words) > 0 && placeFillers[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	for len(words) > 0 && leadingFillers[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isMonthWord(w string) bool {
	_, ok := monthNames[strings.TrimSuffix(w, ".")]
	return ok
}

// indexWord finds word in s starting at offset, requiring a space or string
// edge on both sides. It returns -1 when absent.
func indexWord(s, word string, offset int) int {
	for offset <= len(s) {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return -1
		}
		i += offset
		end := i + len(word)
		before := i == 0 || s[i-1] == ' '
		after := end == len(s) || s[end] == ' '
		if before && after {
			return i
		}
		offset = i + 1
	}
	return -1
}

// lastIndexWord is indexWord scanning from the right
func lastIndexWord(s, word string) int {
	found := -1
	for off := 0; ; {
		i := indexWord(s, word, off)
		if i < 0 {
			return found
		}
		found = i
		off = i + 1
	}
}

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

var (
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	usDateRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)

	monthDayRe = regexp.MustCompile(`\b` + monthPattern + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	dayMonthRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\b(?:,?\s+(\d{4})\b)?`)

	inNUnitsRe  = regexp.MustCompile(`\bin\s+(\d{1,3}|a|an|one|two|three|four|five|six|seven|eight|nine|ten)\s+(day|days|week|weeks|month|months)\b`)
	nextWeekRe  = regexp.MustCompile(`\bnext\s+week\b`)
	nextMonthRe = regexp.MustCompile(`\bnext\s+month\b`)
	nextWkndRe  = regexp.MustCompile(`\bnext\s+weekend\b`)
	weekendRe   = regexp.MustCompile(`\b(?:this\s+)?weekend\b`)
	tomorrowRe  = regexp.MustCompile(`\btomorrow\b`)

	ordinalWeekRe = regexp.MustCompile(`\b(\d|first|second|third|fourth|fifth|last)(?:st|nd|rd|th)?\s+week\s+(?:of|in)\s+` + monthPattern + `\b`)
)

var wordNumbers = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5, "last": 4,
}

// Date resolves the first date expression found in text relative to now and
// returns it as YYYY-MM-DD. It returns "" when nothing is recognized.
func Date(text string, now time.Time) string {
	s := strings.ToLower(text)
	today := truncateDay(now)

	if d, ok := absoluteDate(s, today); ok {
		return d.Format(dateLayout)
	}
	if d, ok := namedMonthDate(s, today); ok {
		return d.Format(dateLayout)
	}
	if d, ok := relativeDate(s, now); ok {
		return d.Format(dateLayout)
	}
	if d, ok := ordinalWeekDate(s, today); ok {
		return d.Format(dateLayout)
	}
	return ""
}

func absoluteDate(s string, today time.Time) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if t, ok := validDate(y, time.Month(mo), d); ok {
			return t, true
		}
	}
	if m := usDateRe.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		if m[3] == "" {
			return nextOccurrence(time.Month(mo), d, today)
		}
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y += 2000
		}
		if t, ok := validDate(y, time.Month(mo), d); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func namedMonthDate(s string, today time.Time) (time.Time, bool) {
	var month time.Month
	var day int
	var year string

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		month = monthNames[m[1]]
		day, _ = strconv.Atoi(m[2])
		year = m[3]
	} else if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month = monthNames[m[2]]
		year = m[3]
	} else {
		return time.Time{}, false
	}

	if year != "" {
		y, _ := strconv.Atoi(year)
		return validDate(y, month, day)
	}
	return nextOccurrence(month, day, today)
}

func relativeDate(s string, now time.Time) (time.Time, bool) {
	today := truncateDay(now)

	if tomorrowRe.MatchString(s) {
		return today.AddDate(0, 0, 1), true
	}
	if m := inNUnitsRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = wordNumbers[m[1]]
		}
		if n <= 0 {
			return time.Time{}, false
		}
		switch m[2] {
		case "day", "days":
			return today.AddDate(0, 0, n), true
		case "week", "weeks":
			return today.AddDate(0, 0, 7*n), true
		default:
			return today.AddDate(0, n, 0), true
		}
	}
	if nextWkndRe.MatchString(s) {
		return comingSaturday(now).AddDate(0, 0, 7), true
	}
	if nextWeekRe.MatchString(s) {
		return today.AddDate(0, 0, 7), true
	}
	if nextMonthRe.MatchString(s) {
		return today.AddDate(0, 1, 0), true
	}
	if weekendRe.MatchString(s) {
		return comingSaturday(now), true
	}
	return time.Time{}, false
}

// comingSaturday returns the next Saturday. Before noon on a Saturday that
// is today, since the weekend has not started yet. From noon on the
// following Saturday is returned.
func comingSaturday(now time.Time) time.Time {
	today := truncateDay(now)
	days := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	if days == 0 && now.Hour() >= 12 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

func ordinalWeekDate(s string, today time.Time) (time.Time, bool) {
	m := ordinalWeekRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	week, err := strconv.Atoi(m[1])
	if err != nil {
		week = wordNumbers[m[1]]
	}
	if week < 1 {
		return time.Time{}, false
	}
	day := 1 + (week-1)*7
	if day > 28 {
		day = 28
	}
	month := monthNames[m[2]]

	year := today.Year()
	if month < today.Month() {
		year++
	}
	return validDate(year, month, day)
}

// nextOccurrence places month/day in the current year, or the next one when
// that day has already gone by.
func nextOccurrence(month time.Month, day int, today time.Time) (time.Time, bool) {
	t, ok := validDate(today.Year(), month, day)
	if !ok {
		return validDate(today.Year()+1, month, day)
	}
	if t.Before(today) {
		return validDate(today.Year()+1, month, day)
	}
	return t, true
}

func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var monthWordRe = regexp.MustCompile(`\b` + monthPattern + `\b`)

// Month reports the first month named in text
func Month(text string) (time.Month, bool) {
	m := monthWordRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	return monthNames[m[1]], true
}

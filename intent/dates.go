package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// defaultYear is the two-digit year assumed when a spoken date omits one.
const defaultYear = 26

var monthMap = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14,
	"fifteenth": 15, "sixteenth": 16, "seventeenth": 17, "eighteenth": 18,
	"nineteenth": 19, "twentieth": 20,
	"twenty-first": 21, "twenty first": 21, "twentyfirst": 21,
	"twenty-second": 22, "twenty second": 22, "twentysecond": 22,
	"twenty-third": 23, "twenty third": 23, "twentythird": 23,
	"twenty-fourth": 24, "twenty fourth": 24, "twentyfourth": 24,
	"twenty-fifth": 25, "twenty fifth": 25, "twentyfifth": 25,
	"twenty-sixth": 26, "twenty sixth": 26, "twentysixth": 26,
	"twenty-seventh": 27, "twenty seventh": 27, "twentyseventh": 27,
	"twenty-eighth": 28, "twenty eighth": 28, "twentyeighth": 28,
	"twenty-ninth": 29, "twenty ninth": 29, "twentyninth": 29,
	"thirtieth":    30,
	"thirty-first": 31, "thirty first": 31, "thirtyfirst": 31,
}

func monthAlternation() string {
	names := make([]string, 0, len(monthMap))
	for n := range monthMap {
		names = append(names, n)
	}
	// Longest first so "june" wins over "jun" in alternation.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return strings.Join(names, "|")
}

func sortedOrdinals() []string {
	words := make([]string, 0, len(ordinalWords))
	for w := range ordinalWords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	return words
}

func ordinalAlternation() string {
	return strings.Join(sortedOrdinals(), "|")
}

var (
	numericDateRe = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2,4}))?`)
	dayNumberRe   = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?`)
	monthWordRe   = regexp.MustCompile(`\b(` + monthAlternation() + `)\b`)

	dayMonthRe  = regexp.MustCompile(`\b(` + ordinalAlternation() + `|\d{1,2}(?:st|nd|rd|th)?)\s*(?:of\s+)?(` + monthAlternation() + `)\b`)
	monthDayRe  = regexp.MustCompile(`\b(` + monthAlternation() + `)\s*(\d{1,2}(?:st|nd|rd|th)?)\b`)
	slashDateRe = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}(?:[/\-.]\d{2,4})?\b`)
)

// ParseDate normalizes one spoken or written date phrase to a 6-digit
// YYMMDD token, accepting numeric (3/6, 03-06-26), day-and-month
// ("3rd of june", "june 3") and ordinal-word ("third of june") forms.
// The year defaults to 2026 when absent.
func ParseDate(phrase string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(phrase))

	if m := numericDateRe.FindStringSubmatch(lower); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year := defaultYear
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			year %= 100
		}
		day, month := first, second
		if second > 12 && first <= 12 {
			day, month = second, first
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%02d%02d%02d", year, month, day), true
		}
	}

	day := 0
	if m := dayNumberRe.FindStringSubmatch(lower); m != nil {
		day, _ = strconv.Atoi(m[1])
	} else {
		// Longest word first so "twenty-first" is not read as "first".
		for _, word := range sortedOrdinals() {
			if strings.Contains(lower, word) {
				day = ordinalWords[word]
				break
			}
		}
	}
	if day < 1 || day > 31 {
		return "", false
	}

	m := monthWordRe.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("%02d%02d%02d", defaultYear, monthMap[m[1]], day), true
}

// ExtractDates finds every date phrase in text, in order of appearance,
// and returns the raw phrases that parse successfully.
func ExtractDates(text string) []string {
	type hit struct {
		raw   string
		index int
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{dayMonthRe, monthDayRe, slashDateRe} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{raw: text[loc[0]:loc[1]], index: loc[0]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].index < hits[j].index })

	var out []string
	for _, h := range hits {
		if _, ok := ParseDate(h.raw); ok {
			out = append(out, h.raw)
		}
	}
	return out
}

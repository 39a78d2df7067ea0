package intent

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	flightDatesRe = regexp.MustCompile(
		`from\s+(?:the\s+)?((?:\d{1,2}(?:st|nd|rd|th)?|` + ordinalAlternation() + `)\s+(?:of\s+)?(?:` + monthAlternation() + `))` +
			`\s+to\s+(?:the\s+)?((?:\d{1,2}(?:st|nd|rd|th)?|` + ordinalAlternation() + `)\s+(?:of\s+)?(?:` + monthAlternation() + `))`)

	fromToRe      = regexp.MustCompile(`from\s+(.+?)\s+to\s+(.+?)$`)
	toOnlyRe      = regexp.MustCompile(`to\s+(.+?)$`)
	fromToTwiceRe = regexp.MustCompile(`from\s+(.+?)\s+to\s+(.+?)\s+from\s+(.+?)\s+to\s+(.+?)(?:\.|$)`)
	toFromToRe    = regexp.MustCompile(`to\s+(.+?)\s+from\s+(.+?)\s+to\s+(.+?)(?:\.|$)`)
	hasDigitRe    = regexp.MustCompile(`\d`)
)

// defaultOrigin is assumed when the utterance names no departure place.
const defaultOrigin = "edinburgh"

// parseFlight extracts a round-trip flight booking from utterances like
// "book a flight from edinburgh to paris from the 3rd of june to the 10th
// of june". Places and dates each have positional fallbacks; a booking
// missing any required field is discarded rather than partially
// dispatched.
func parseFlight(text string, _ *Context) (Intent, bool, error) {
	if !strings.Contains(text, "flight") && !strings.Contains(text, "fly") {
		return nil, false, nil
	}

	var origin, destination, departRaw, returnRaw string

	if m := flightDatesRe.FindStringSubmatchIndex(text); m != nil {
		departRaw = strings.TrimSpace(text[m[2]:m[3]])
		returnRaw = strings.TrimSpace(text[m[4]:m[5]])

		beforeDates := strings.TrimSpace(text[:m[0]])
		if fm := fromToRe.FindStringSubmatch(beforeDates); fm != nil {
			origin = strings.TrimSpace(fm[1])
			destination = strings.TrimSpace(fm[2])
		} else if tm := toOnlyRe.FindStringSubmatch(beforeDates); tm != nil {
			origin = defaultOrigin
			destination = strings.TrimSpace(tm[1])
		} else {
			origin = defaultOrigin
		}
	} else if m := fromToTwiceRe.FindStringSubmatch(text); m != nil {
		first := strings.ToLower(strings.TrimSpace(m[1]))
		if looksLikeDate(first) {
			// "from 3rd of june to paris from ..." put the date first.
			origin = defaultOrigin
			destination = strings.TrimSpace(m[2])
			departRaw = strings.TrimSpace(m[1])
			returnRaw = strings.TrimSpace(m[3])
		} else {
			origin = strings.TrimSpace(m[1])
			destination = strings.TrimSpace(m[2])
			departRaw = strings.TrimSpace(m[3])
			returnRaw = strings.TrimSpace(m[4])
		}
	} else if m := toFromToRe.FindStringSubmatch(text); m != nil {
		origin = defaultOrigin
		destination = strings.TrimSpace(m[1])
		departRaw = strings.TrimSpace(m[2])
		returnRaw = strings.TrimSpace(m[3])
	}

	if origin == "" || destination == "" {
		locations := findLocations(text)
		if origin == "" && len(locations) > 0 {
			origin = locations[0]
		}
		if destination == "" && len(locations) > 1 {
			destination = locations[1]
		}
		if destination == "" && len(locations) == 1 {
			destination = locations[0]
		}
	}
	if origin == "" {
		origin = defaultOrigin
	}

	if destination == "" || departRaw == "" || returnRaw == "" {
		if dates := ExtractDates(text); len(dates) >= 2 {
			departRaw = dates[0]
			returnRaw = dates[1]
		}
	}
	if destination == "" || departRaw == "" || returnRaw == "" {
		return nil, false, nil
	}

	depart, ok := ParseDate(departRaw)
	if !ok {
		return nil, false, nil
	}
	ret, ok := ParseDate(returnRaw)
	if !ok {
		return nil, false, nil
	}

	return BookFlight{
		Origin:      origin,
		Destination: destination,
		DepartDate:  depart,
		ReturnDate:  ret,
	}, true, nil
}

func looksLikeDate(s string) bool {
	if hasDigitRe.MatchString(s) {
		return true
	}
	for name := range monthMap {
		if strings.Contains(s, name) {
			return true
		}
	}
	return false
}

// BookingURL builds the flight-search URL for a resolved booking.
func BookingURL(b BookFlight) string {
	return fmt.Sprintf(
		"https://www.skyscanner.net/transport/flights/%s/%s/%s/%s/?adultsv2=1&cabinclass=economy&childrenv2=&ref=home&rtn=1&preferdirects=false&outboundaltsenabled=false&inboundaltsenabled=false",
		PlaceCode(b.Origin), PlaceCode(b.Destination), b.DepartDate, b.ReturnDate)
}

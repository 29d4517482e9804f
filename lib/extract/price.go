package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// exclusive sanity bounds: zero-priced matches are markup artifacts and
// anything at 1000+ is a parse of something that is not a ticket price
const (
	priceLowerBound = 0.0
	priceUpperBound = 1000.0
)

const num = `(\d+(?:[.,]\d{1,2})?)`

// ordered by priority, ranges first so "€10-€20" is not swallowed by the
// single-price forms
var priceRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:€|EUR)\s*` + num + `\s*[-–]\s*(?:€|EUR)?\s*` + num),
	regexp.MustCompile(`(?i)` + num + `\s*[-–]\s*` + num + `\s*(?:€|EUR|ευρώ)`),
}

var priceSinglePatterns = []*regexp.Regexp{
	// symbol before: "€15", "EUR 15"
	regexp.MustCompile(`(?i)(?:€|EUR)\s*` + num),
	// symbol after: "15€", "15 ευρώ"
	regexp.MustCompile(`(?i)` + num + `\s*(?:€|EUR|ευρώ)`),
	// Greek labels: "Τιμή: 15€", "Κόστος 20 ευρώ"
	regexp.MustCompile(`(?i)(?:Τιμή|Κόστος|Εισιτήριο)[:\s]+` + num),
	// "από €10", "from €15"
	regexp.MustCompile(`(?i)(?:από|from)\s+(?:€|EUR)?\s*` + num),
	// presale/door prices
	regexp.MustCompile(`(?i)(?:προπώληση|presale)[:\s]+(?:€|EUR)?\s*` + num),
	regexp.MustCompile(`(?i)(?:ταμείο|door)[:\s]+(?:€|EUR)?\s*` + num),
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	if v <= priceLowerBound || v >= priceUpperBound {
		// out-of-bound values are discarded, never clamped
		return 0, false
	}
	return v, true
}

func extractPrice(html string) Field {
	for _, pattern := range priceRangePatterns {
		for _, match := range pattern.FindAllStringSubmatch(html, -1) {
			lo, okLo := parseAmount(match[1])
			hi, okHi := parseAmount(match[2])
			if !okLo || !okHi || hi < lo {
				continue
			}
			return Field{
				Kind:     KindPrice,
				Outcome:  OutcomeFound,
				Amount:   lo,
				Range:    fmt.Sprintf("€%.0f-€%.0f", lo, hi),
				Currency: "EUR",
			}
		}
	}

	for _, pattern := range priceSinglePatterns {
		for _, match := range pattern.FindAllStringSubmatch(html, -1) {
			amount, ok := parseAmount(match[1])
			if !ok {
				continue
			}
			return Field{
				Kind:     KindPrice,
				Outcome:  OutcomeFound,
				Amount:   amount,
				Currency: "EUR",
			}
		}
	}

	return notFound(KindPrice)
}

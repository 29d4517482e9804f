package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ordered by priority: declaration order is the tie-break between
// equally-scored candidates
var timePatterns = []*regexp.Regexp{
	// "Ώρα: 20:30", "Ώρα έναρξης: 21:00"
	regexp.MustCompile(`(?i)Ώρα(?:\s+έναρξης)?[:\s]+(\d{1,2}:\d{2})`),
	// time with Greek am/pm markers
	regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*(?:μ\.μ\.|μμ|π\.μ\.|πμ)`),
	// JSON-LD structured data
	regexp.MustCompile(`(?i)"startDate"[:\s]+"[^"]*T(\d{2}:\d{2}):`),
	// meta tags
	regexp.MustCompile(`(?i)<meta[^>]*content="[^"]*T(\d{2}:\d{2}):`),
	// time adjacent to a date label
	regexp.MustCompile(`(?i)(?:Ημέρα|Ημερομηνία)[^<]*?(\d{1,2}:\d{2})`),
	// bare word-bounded time, lowest priority
	regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`),
}

var allDayMarker = regexp.MustCompile(`(?i)ALL_DAY|all[\s-]day|όλη\s+(?:την\s+η)?μέρα`)

// ValidateTime normalizes a "H:MM"/"HH:MM" string to zero-padded 24-hour
// form, rejecting out-of-range components.
func ValidateTime(s string) (string, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), true
}

func scoreTime(hours, minutes int) int {
	score := 0
	// rounded times (19:00, 20:30, ...) are far more likely to be a
	// published start time than e.g. 19:47
	if minutes == 0 || minutes == 15 || minutes == 30 || minutes == 45 {
		score += 10
	}
	switch {
	case hours >= 18 && hours <= 23:
		score += 5
	case hours >= 14 && hours <= 17:
		score += 3
	case hours >= 10 && hours <= 13:
		score += 1
	}
	return score
}

func extractTime(html string) Field {
	// an explicit all-day marker wins over any stray time-like substring
	if allDayMarker.MatchString(html) {
		return Field{Kind: KindTime, Outcome: OutcomeAllDay}
	}

	var candidates []Candidate
	for patternID, pattern := range timePatterns {
		for _, match := range pattern.FindAllStringSubmatchIndex(html, -1) {
			// group 1 bounds
			if len(match) < 4 || match[2] < 0 {
				continue
			}
			raw := html[match[2]:match[3]]
			normalized, ok := ValidateTime(raw)
			if !ok {
				continue
			}
			hours, _ := strconv.Atoi(normalized[:2])
			minutes, _ := strconv.Atoi(normalized[3:])

			// events do not start before 08:00
			if hours < 8 {
				continue
			}

			candidates = append(candidates, Candidate{
				Value:     normalized,
				PatternID: patternID,
				Offset:    match[2],
				Score:     scoreTime(hours, minutes),
			})
		}
	}

	if len(candidates) == 0 {
		return notFound(KindTime)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
			continue
		}
		// strict pattern-priority order, never arrival order
		if c.Score == best.Score && (c.PatternID < best.PatternID ||
			(c.PatternID == best.PatternID && c.Offset < best.Offset)) {
			best = c
		}
	}

	return Field{
		Kind:       KindTime,
		Outcome:    OutcomeFound,
		Value:      best.Value,
		Confidence: best.Score,
	}
}

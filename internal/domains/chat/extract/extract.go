// Package extract pulls trip parameters out of free-form guest messages.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result is what a single message contributed. Nil fields mean the message
// said nothing about them; merging into the running query is the caller's job.
type Result struct {
	CheckIn    *time.Time
	CheckOut   *time.Time
	SingleDate *time.Time
	Guests     *int
	Rooms      *int

	// GeneralQuery marks property-wide questions (services, amenities) that
	// should reset the trip snapshot so stale dates don't taint the answer.
	GeneralQuery bool
}

// Extractor is the pluggable strategy for reading trip parameters from text.
type Extractor interface {
	Extract(text string) Result
}

var (
	slashDatePattern = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
	isoDatePattern   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	guestsPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:personas?|huespedes?|huéspedes?|adultos?|pasajeros?)\b`)
	roomsPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*habitacion(?:es)?\b`)

	generalQueryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)servicios\s+del\s+hospedaje`),
		regexp.MustCompile(`(?i)\bque\s+servicios\b`),
		regexp.MustCompile(`(?i)\bqué\s+servicios\b`),
		regexp.MustCompile(`(?i)\btienen?\s+(?:pileta|piscina|estacionamiento|cochera|wifi|desayuno|spa|gimnasio)\b`),
		regexp.MustCompile(`(?i)\bhay\s+(?:pileta|piscina|estacionamiento|cochera|wifi|desayuno|spa|gimnasio)\b`),
		regexp.MustCompile(`(?i)admiten?\s+mascotas`),
		regexp.MustCompile(`(?i)horario\s+de\s+(?:check.?in|check.?out|entrada|salida)`),
		regexp.MustCompile(`(?i)como\s+llegar`),
		regexp.MustCompile(`(?i)donde\s+(?:esta|queda)`),
	}
)

type regexExtractor struct{}

// NewRegexExtractor returns the default pattern-based strategy.
func NewRegexExtractor() Extractor {
	return &regexExtractor{}
}

func (e *regexExtractor) Extract(text string) Result {
	var res Result

	if isGeneralQuery(text) {
		res.GeneralQuery = true

		return res
	}

	dates := extractDates(text)

	switch {
	case len(dates) >= 2:
		first, second := dates[0], dates[1]
		if second.Before(first) {
			first, second = second, first
		}

		res.CheckIn = &first
		res.CheckOut = &second
	case len(dates) == 1:
		res.SingleDate = &dates[0]
	}

	if guests, ok := firstNumber(guestsPattern, text); ok {
		res.Guests = &guests
	}

	if rooms, ok := firstNumber(roomsPattern, text); ok {
		res.Rooms = &rooms
	}

	return res
}

func isGeneralQuery(text string) bool {
	for _, pattern := range generalQueryPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	return false
}

// extractDates returns the valid calendar dates in order of appearance.
// Invalid combinations like 45/13/2026 are dropped silently.
func extractDates(text string) []time.Time {
	var dates []time.Time

	for _, raw := range slashDatePattern.FindAllString(text, -1) {
		if t, err := time.Parse("2/1/2006", raw); err == nil {
			dates = append(dates, t)
		}
	}

	for _, raw := range isoDatePattern.FindAllString(text, -1) {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			dates = append(dates, t)
		}
	}

	return dates
}

func firstNumber(pattern *regexp.Regexp, text string) (int, bool) {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(match[1]))
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}

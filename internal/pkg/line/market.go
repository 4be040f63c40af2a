// Package line converts quoted handicap lines into signed values relative to the home team.
package line

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnparsable is returned (wrapped) when a line carries no usable number.
var ErrUnparsable = errors.New("unparsable market line")

var evenSentinels = map[string]bool{
	"":        true,
	"EVEN":    true,
	"PK":      true,
	"PICK":    true,
	"PICK'EM": true,
	"NONE":    true,
	"NULL":    true,
	"N/A":     true,
}

// IsEven reports whether raw denotes a zero line (EVEN, pick'em, empty or null).
func IsEven(raw string) bool {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if evenSentinels[s] {
		return true
	}
	for _, f := range strings.Fields(s) {
		if f == "EVEN" {
			return true
		}
	}
	return false
}

// ParseMarketLine turns a quoted line into a float relative to homeTeam.
//
// A bare number ("-4.0") is already relative to the home team. A prefixed line ("LAL -5.5") is
// expressed for the team the prefix names, so the value is negated when that team is not the home side.
// Failures return 0 and an error wrapping ErrUnparsable; callers log it and use the zero.
func ParseMarketLine(raw, homeTeam string) (float64, error) {
	if IsEven(raw) {
		return 0, nil
	}

	fields := strings.Fields(raw)
	value, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, raw)
	}
	if len(fields) == 1 {
		return value, nil
	}

	if MatchesTeam(fields[0], homeTeam) {
		return value, nil
	}
	return -value, nil
}

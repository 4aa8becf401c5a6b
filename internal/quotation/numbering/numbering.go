// Package numbering produces human-readable sequential quotation numbers.
package numbering

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Prefix = "COT-"
	Width  = 4
)

// ErrSequenceExhausted is returned when no larger sequence can be represented.
var ErrSequenceExhausted = errors.New("quotation_sequence_exhausted")

// Format renders seq with the given prefix, zero-padded to width.
// Sequences wider than width are kept in full.
func Format(prefix string, width int, seq int64) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("invalid quotation sequence: %d", seq)
	}
	if width <= 0 {
		return "", fmt.Errorf("invalid quotation number width: %d", width)
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq), nil
}

// Sequence extracts the numeric suffix of a quotation number.
func Sequence(number string) (int64, bool) {
	seq, err := parseSequence(number)
	if err != nil {
		return 0, false
	}
	return seq, true
}

func parseSequence(number string) (int64, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(number), Prefix)
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, err
	}
	if seq < 0 {
		return 0, strconv.ErrSyntax
	}
	return seq, nil
}

// Next returns the number following the highest one in existing.
// Numbers whose suffix is not numeric are ignored; a numeric suffix too large
// to increment yields ErrSequenceExhausted.
func Next(existing []string) (string, error) {
	var last int64
	for _, number := range existing {
		seq, err := parseSequence(number)
		if errors.Is(err, strconv.ErrRange) {
			return "", fmt.Errorf("%w: %q", ErrSequenceExhausted, number)
		}
		if err == nil && seq > last {
			last = seq
		}
	}
	if last == math.MaxInt64 {
		return "", ErrSequenceExhausted
	}
	return Format(Prefix, Width, last+1)
}

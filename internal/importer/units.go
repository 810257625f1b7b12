package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDiameter reads a bar diameter in mm from forms like "12", "DB12",
// "Ø16mm", "#20" or "RB9".
func ParseDiameter(s string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range []string{"db", "rb", "ø", "⌀", "#", "d"} {
		if strings.HasPrefix(v, prefix) {
			v = strings.TrimSpace(strings.TrimPrefix(v, prefix))
			break
		}
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, "mm"))

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse diameter %q: %w", s, err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parse diameter %q: not a whole number of millimetres", s)
	}
	return int(f), nil
}

// ParseLength reads a length and converts it to metres. Bare numbers are
// metres; "mm", "cm" and "m" suffixes and an "L=" prefix are accepted.
func ParseLength(s string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSpace(strings.TrimPrefix(v, "l="))
	v = strings.ReplaceAll(v, " ", "")

	scale := 1.0
	switch {
	case strings.HasSuffix(v, "mm"):
		scale, v = 0.001, strings.TrimSuffix(v, "mm")
	case strings.HasSuffix(v, "cm"):
		scale, v = 0.01, strings.TrimSuffix(v, "cm")
	case strings.HasSuffix(v, "m"):
		v = strings.TrimSuffix(v, "m")
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse length %q: %w", s, err)
	}
	return f * scale, nil
}

// ParseQuantity reads a piece count from forms like "10", "10 pcs", "10x"
// or "10 nos".
func ParseQuantity(s string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range []string{"pcs", "pc", "nos", "no", "ea", "x", "เส้น", "ท่อน"} {
		if strings.HasSuffix(v, suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, suffix))
			break
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parse quantity %q: not a whole number", s)
	}
	return int(f), nil
}

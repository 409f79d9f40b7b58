package template

import (
	"fmt"
	"strconv"
	"strings"
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72.0
	MmToPt = 72.0 / 25.4
)

// ParseLength parses a length literal with an optional unit suffix
// (mm, cm, in, pt) and returns its value in millimeters. A bare number is
// taken as millimeters.
func ParseLength(value string) (float64, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return 0, fmt.Errorf("empty length")
	}
	factor := 1.0
	num := v
	for _, suf := range []struct {
		s string
		f float64
	}{{"mm", 1}, {"cm", 10}, {"in", 25.4}, {"pt", PtToMm}} {
		if strings.HasSuffix(v, suf.s) {
			factor = suf.f
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", value)
	}
	return f * factor, nil
}

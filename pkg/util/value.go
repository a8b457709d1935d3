package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

// Units accepted after the scale suffix. They are checked, not converted.
var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)((?i:meg)|[TGKkmunpf])?(V|A|s|W|(?i:ohm)|Hz)?$`)

// ParseValue reads a number with an optional SPICE scale suffix and an
// optional unit, e.g. "600m", "600mV", "10u", "1k", "1Meg", "1.38e-23".
// Any other trailing text is rejected.
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %q", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value format: %q: %w", val, err)
	}

	suffix := matches[2]
	if strings.EqualFold(suffix, "meg") {
		suffix = "meg"
	}
	if multiplier, ok := unitMap[suffix]; ok {
		num *= multiplier
	}

	return num, nil
}

package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// optionalFloat is a flag value that remembers whether it was set.
type optionalFloat struct {
	value float64
	set   bool
}

func (f *optionalFloat) String() string {
	if f == nil || !f.set {
		return ""
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

func (f *optionalFloat) Set(raw string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%q is not a finite number", raw)
	}
	f.value = v
	f.set = true
	return nil
}

// or returns the flag value when set, otherwise fallback.
func (f *optionalFloat) or(fallback float64) float64 {
	if f == nil || !f.set {
		return fallback
	}
	return f.value
}

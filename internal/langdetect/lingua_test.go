package langdetect

import (
	"reflect"
	"testing"
)

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" EN-us ": "en",
		"pt_BR":   "pt",
		"fr":      "fr",
		"":        "",
		"e1":      "",
		"-en":     "",
	}
	for input, want := range cases {
		if got := NormalizeCode(input); got != want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNewDetectorDropsUnknownAndDuplicateCodes(t *testing.T) {
	t.Parallel()

	detector := NewDetector([]string{"en", "EN-gb", "xx", "", "fr"})
	if got := detector.Codes(); !reflect.DeepEqual(got, []string{"en", "fr"}) {
		t.Fatalf("unexpected codes: %v", got)
	}
}

func TestDetectISO6391ShortSample(t *testing.T) {
	t.Parallel()

	detector := NewDetector([]string{"en", "fr"})
	if got := detector.DetectISO6391("  a b "); got != "" {
		t.Fatalf("expected empty code for short sample, got %q", got)
	}

	var nilDetector *Detector
	if got := nilDetector.DetectISO6391("Cyclone strikes the coast"); got != "" {
		t.Fatalf("expected empty code for nil detector, got %q", got)
	}
}

func TestDetectISO6391(t *testing.T) {
	t.Parallel()

	detector := NewDetector([]string{"en", "fr", "es"})
	if got := detector.DetectISO6391("Thousands displaced as the cyclone strikes the eastern coast"); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
	if got := detector.DetectISO6391("Des milliers de personnes déplacées après le passage du cyclone"); got != "fr" {
		t.Fatalf("expected fr, got %q", got)
	}
}

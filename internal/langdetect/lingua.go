package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// minLetters is the shortest sample, in letters, worth running detection on.
const minLetters = 6

// Detector annotates headlines with an ISO 639-1 language code. The
// underlying lingua detector is built lazily on first use.
type Detector struct {
	codes []lingua.IsoCode639_1

	once     sync.Once
	detector lingua.LanguageDetector
}

// NewDetector restricts detection to the given ISO 639-1 codes. Unknown codes
// are dropped; with fewer than two usable codes every language is considered.
func NewDetector(codes []string) *Detector {
	seen := make(map[lingua.IsoCode639_1]struct{}, len(codes))
	parsed := make([]lingua.IsoCode639_1, 0, len(codes))
	for _, raw := range codes {
		code := NormalizeCode(raw)
		if code == "" {
			continue
		}
		iso := lingua.GetIsoCode639_1FromValue(code)
		if iso == lingua.UnknownIsoCode639_1 {
			continue
		}
		if _, ok := seen[iso]; ok {
			continue
		}
		seen[iso] = struct{}{}
		parsed = append(parsed, iso)
	}
	return &Detector{codes: parsed}
}

// Codes returns the configured language codes in lowercase.
func (d *Detector) Codes() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.codes))
	for _, iso := range d.codes {
		out = append(out, strings.ToLower(iso.String()))
	}
	return out
}

// DetectISO6391 returns the lowercase ISO 639-1 code of text, or "" when the
// sample is too short or no language is reliable.
func (d *Detector) DetectISO6391(text string) string {
	if d == nil {
		return ""
	}

	sample := strings.TrimSpace(text)
	if countLetters(sample) < minLetters {
		return ""
	}

	language, exists := d.get().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func (d *Detector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		builder := lingua.NewLanguageDetectorBuilder()
		if len(d.codes) >= 2 {
			d.detector = builder.FromIsoCodes639_1(d.codes...).Build()
			return
		}
		d.detector = builder.FromAllLanguages().Build()
	})
	return d.detector
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// NormalizeCode returns the lowercase primary subtag of a language tag, for
// example "pt" from "PT_br". Blank or malformed tags yield "".
func NormalizeCode(raw string) string {
	tag := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	primary, _, _ := strings.Cut(tag, "-")
	primary = strings.TrimSpace(primary)
	if primary == "" {
		return ""
	}
	for _, r := range primary {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return primary
}

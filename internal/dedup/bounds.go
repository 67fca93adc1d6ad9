package dedup

import "fmt"

// BoundsError reports an input that exceeds the host's configured limits.
type BoundsError struct {
	Field   string
	Message string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// CheckBounds enforces caller-side limits on batch size and title length.
// Scoring is quadratic in both and the fuzzy package imposes no limits of its
// own, so every host entry point calls this before clustering.
func CheckBounds(titles []string, maxItems, maxTitleBytes int) error {
	if maxItems > 0 && len(titles) > maxItems {
		return &BoundsError{
			Field:   "items",
			Message: fmt.Sprintf("must contain at most %d entries", maxItems),
		}
	}
	if maxTitleBytes <= 0 {
		return nil
	}
	for i, title := range titles {
		if len(title) > maxTitleBytes {
			return &BoundsError{
				Field:   fmt.Sprintf("items[%d].title", i),
				Message: fmt.Sprintf("must be at most %d bytes", maxTitleBytes),
			}
		}
	}
	return nil
}

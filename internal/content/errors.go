package content

import "fmt"

// InsufficientContentError reports that the pool cannot produce a round.
// Callers show a no-content state rather than results.
type InsufficientContentError struct {
	Variant Variant
	Need    int
	Have    int
}

func (e *InsufficientContentError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("insufficient content: need %d words, have %d", e.Need, e.Have)
	}
	return fmt.Sprintf("insufficient content for %s: need %d words, have %d", e.Variant, e.Need, e.Have)
}

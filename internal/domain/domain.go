package domain

import "strings"

// ValidationError carries every invariant a construction or update call
// violated, so callers can correct all fields at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

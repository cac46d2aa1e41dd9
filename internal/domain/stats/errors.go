package stats

import "errors"

// Stats domain errors.
var (
	ErrStatNotFound = errors.New("daily stat not found")
)

package status

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned when the heartbeat store or reference data
// could not be read (unreachable or timed out). Callers must surface it as a
// distinct failure instead of rendering an empty result set: "could not
// determine status" and "all monitors down" are different answers.
var ErrDataUnavailable = errors.New("heartbeat data unavailable")

// ErrNotFound is returned by reference-data lookups for unknown ids.
var ErrNotFound = errors.New("not found")

func dataUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
}

package timestamp

import (
	"errors"
	"fmt"
)

var (
	errEmptyComponent = errors.New("component is empty")
	errNotInteger     = errors.New("component is not an integer")
	errNegative       = errors.New("component is negative")
	errOutOfRange     = errors.New("value is too large")
)

// ParseError is returned when a timestamp item cannot be parsed. Index
// is the position of the item in the list given to Parse (zero when
// ParseRange is used directly).
type ParseError struct {
	Input  string
	Index  int
	Reason string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("malformed timestamp %q (item %d): %s", err.Input, err.Index, err.Reason)
}

package speed

import (
	"errors"
	"fmt"
)

var ErrOutputExists = errors.New("output file already exists and overwrite is disabled")

type (
	// RequestError is returned when a transform request is not usable
	// before any media is touched.
	RequestError struct{ reason string }

	// RenderError wraps any failure of the media engine, or of the
	// filesystem while placing the rendered output.
	RenderError struct {
		Stage string
		Path  string
		err   error
	}
)

func (err *RequestError) Error() string {
	return fmt.Sprintf("invalid transform request: %s", err.reason)
}

func (err *RenderError) Error() string {
	return fmt.Sprintf("render failed during %s of %s: %s", err.Stage, err.Path, err.err.Error())
}

func (err *RenderError) Unwrap() error { return err.err }

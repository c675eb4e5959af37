package instagram

import "fmt"

// ProviderError is returned by a Provider when post metadata could not be
// retrieved: the request failed, the page responded with a non-OK status, or
// the page contained nothing that could be parsed as post metadata.
type ProviderError struct {
	Shortcode  string
	StatusCode int
	reason     string
	err        error
}

func (err *ProviderError) Error() string {
	if err.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch post %s (HTTP %d): %s", err.Shortcode, err.StatusCode, err.reason)
	}

	return fmt.Sprintf("failed to fetch post %s: %s", err.Shortcode, err.reason)
}

func (err *ProviderError) Unwrap() error { return err.err }

package monkeytype

import "fmt"

// APIError reports a non-2xx scoreboard response.
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

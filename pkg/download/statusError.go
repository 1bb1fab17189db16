package download

import "fmt"

// StatusError is returned when a server replies with an unexpected status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("%s: server replied with %d", err.URL, err.StatusCode)
}

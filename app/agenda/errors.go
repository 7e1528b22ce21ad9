package agenda

import (
	"errors"
	"fmt"
)

// ErrFutureRange is returned for periods strictly after the current ISO
// week. It is surfaced as a client error and never retried.
var ErrFutureRange = errors.New("no data for future weeks")

// UpstreamError reports a non-success response from the agenda page.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

package catalog

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrTransport is matched by every TransportError.
var ErrTransport = errors.New("catalog transport failure")

// TransportError reports that no response body could be obtained from the
// catalog: the request failed, timed out, or the server answered with a
// non-2xx status.
type TransportError struct {
	Op string
	// StatusCode is set when the server responded with a non-2xx status.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) hold for any TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

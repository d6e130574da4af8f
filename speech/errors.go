package speech

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every validation failure raised before
// a call reaches the native configuration layer. Check with errors.Is.
var ErrInvalidArgument = errors.New("speech: invalid argument")

// ErrConfigClosed is returned when a setter is invoked on a configuration
// after Close.
var ErrConfigClosed = errors.New("speech: configuration is closed")

func invalidArgument(name, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, name, reason)
}

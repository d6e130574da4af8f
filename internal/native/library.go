package native

import (
	"errors"
	"sync/atomic"
)

// ErrNotLoaded is returned by the config factories when Load has not been
// called yet. Loading is an explicit process-wide step, not a side effect
// of creating the first configuration.
var ErrNotLoaded = errors.New("native: library not loaded, call native.Load first")

// ErrReleased is returned when a released configuration handle is used.
var ErrReleased = errors.New("native: configuration handle already released")

var (
	loaded      atomic.Bool
	liveHandles atomic.Int64
)

// Load initializes the native configuration layer. It must be called once
// at process start, before any configuration is created. Calling it again
// is a no-op.
func Load() error {
	loaded.Store(true)
	return nil
}

// Loaded reports whether Load has been called.
func Loaded() bool {
	return loaded.Load()
}

// LiveHandles returns the number of configuration handles that have been
// created and not yet released.
func LiveHandles() int64 {
	return liveHandles.Load()
}

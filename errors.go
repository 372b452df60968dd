package mixer

import "errors"

var (
	// ErrOutOfMemory is returned by NewState when the requested buffer or
	// channel sizes cannot be satisfied.
	ErrOutOfMemory = errors.New("mixer: out of memory")

	// ErrInvalidHandle is returned by Uninit when called on a state that
	// has already been torn down.
	ErrInvalidHandle = errors.New("mixer: invalid handle")

	// ErrChannelRange is returned by APIs indexing into the channel array
	// with an out of range index.
	ErrChannelRange = errors.New("mixer: channel index out of range")
)

package recordstore

import "errors"

var (
	// ErrNotFound indicates no value is stored under the key.
	ErrNotFound = errors.New("recordstore: key not found")

	// ErrEmptyKey indicates an empty key was supplied.
	ErrEmptyKey = errors.New("recordstore: key must not be empty")

	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("recordstore: store is closed")

	// ErrUnknownBackend indicates the backend name is not recognized.
	ErrUnknownBackend = errors.New("recordstore: unknown backend (must be \"bolt\", \"sqlite\", or \"memory\")")

	// ErrIOFailure indicates the underlying database failed a read or write.
	ErrIOFailure = errors.New("recordstore: I/O failure")
)

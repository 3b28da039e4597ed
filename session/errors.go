package session

import "errors"

var (
	// ErrNotConnected indicates an operation needs a resolved caller address.
	ErrNotConnected = errors.New("session: wallet not connected")

	// ErrNoProvider indicates Connect was called without an identity provider.
	ErrNoProvider = errors.New("session: no identity provider configured")

	// ErrNoNotifier indicates Watch was called on a provider without events.
	ErrNoNotifier = errors.New("session: identity provider does not emit events")

	// ErrUnknownContent indicates Share named a content id with no record.
	ErrUnknownContent = errors.New("session: unknown content id")

	// ErrNotOwner indicates the caller tried to share content they did not upload.
	ErrNotOwner = errors.New("session: only the owner can share a file")
)

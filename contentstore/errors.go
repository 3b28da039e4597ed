package contentstore

import "errors"

var (
	// ErrStoreFailed indicates the content store did not accept the upload.
	ErrStoreFailed = errors.New("contentstore: store failed")

	// ErrAuthFailed indicates the store rejected the configured credentials.
	ErrAuthFailed = errors.New("contentstore: authentication failed")

	// ErrInvalidResponse indicates the store returned a malformed response.
	ErrInvalidResponse = errors.New("contentstore: invalid response")

	// ErrEmptyContent indicates an attempt to store zero bytes.
	ErrEmptyContent = errors.New("contentstore: content is empty")

	// ErrNotFound indicates no content exists for the given content id.
	ErrNotFound = errors.New("contentstore: content not found")

	// ErrInvalidCID indicates a content id is not usable as a storage key.
	ErrInvalidCID = errors.New("contentstore: invalid content id")

	// ErrNotConfigured indicates required settings (credentials, bucket, root) are missing.
	ErrNotConfigured = errors.New("contentstore: store is not configured")
)

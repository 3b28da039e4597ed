// Package contentstore uploads file bytes to content-addressed storage and
// maps the returned content identifiers to retrieval URLs.
//
// Holding a content identifier is sufficient to fetch the bytes: the stores
// here provide no access control of their own.
package contentstore

import "context"

// Backend names of the stores in this package.
const (
	BackendPinata = "pinata"
	BackendLocal  = "local"
	BackendS3     = "s3"
)

// Store accepts raw bytes and returns a content identifier.
type Store interface {
	// Put uploads data and returns its content identifier. name is the
	// original file name and is only used as upload metadata.
	Put(ctx context.Context, name string, data []byte) (string, error)

	// Locate returns the URL the content can be retrieved from. It performs
	// no I/O.
	Locate(cid string) string
}

package registry

import (
	"errors"
	"fmt"
)

// Registry sentinel errors.
var (
	ErrSelfShare      = errors.New("registry: cannot share a file with yourself")
	ErrEmptyContentID = errors.New("registry: record has no content id")
)

// Kind classifies registry failures.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors outside the taxonomy.
	KindUnknown Kind = iota

	// KindValidation covers malformed or self-referential addresses. The
	// registry state is unchanged.
	KindValidation

	// KindUpstream covers content store, identity provider and record store
	// failures. The registry state is unchanged.
	KindUpstream

	// KindPersistenceDecode covers stored blobs that cannot be parsed. Load
	// recovers from it by starting with an empty collection.
	KindPersistenceDecode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindPersistenceDecode:
		return "persistence_decode"
	default:
		return "unknown"
	}
}

// ValidationError reports a rejected caller-supplied value.
type ValidationError struct {
	Field string // "owner", "recipient", "record", "caller"
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registry: invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Kind returns KindValidation.
func (e *ValidationError) Kind() Kind { return KindValidation }

// Upstream services named in UpstreamError.
const (
	ServiceContentStore = "contentstore"
	ServiceRecordStore  = "recordstore"
	ServiceIdentity     = "identity"
	ServiceAlias        = "alias"
)

// UpstreamError reports a collaborator failure.
type UpstreamError struct {
	Service string // one of the Service* constants
	Op      string // e.g. "put", "get", "resolve"
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("registry: %s %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Kind returns KindUpstream.
func (e *UpstreamError) Kind() Kind { return KindUpstream }

// PersistenceDecodeError reports a stored blob that is not a valid record list.
type PersistenceDecodeError struct {
	Key string
	Err error
}

func (e *PersistenceDecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("registry: decode records: %v", e.Err)
	}
	return fmt.Sprintf("registry: decode records at %q: %v", e.Key, e.Err)
}

func (e *PersistenceDecodeError) Unwrap() error { return e.Err }

// Kind returns KindPersistenceDecode.
func (e *PersistenceDecodeError) Kind() Kind { return KindPersistenceDecode }

// KindOf returns the Kind of the first taxonomy error in err's chain.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

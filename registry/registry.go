// Package registry keeps the record of which wallet uploaded which content
// and which single wallet, if any, it is shared with.
//
// A Registry is owned by one session. It is loaded once from a
// recordstore.Store, mutated in memory, and after every mutation the whole
// collection is re-serialized and written back under a single key. There is
// no merge with other sessions.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/secureexorg/libsecureex-go/address"
	"github.com/secureexorg/libsecureex-go/contentstore"
	"github.com/secureexorg/libsecureex-go/logging"
	"github.com/secureexorg/libsecureex-go/recordstore"
)

// DefaultKey is the record store key holding the collection.
const DefaultKey = "secure_ex_files"

// Registry is the ordered collection of share records.
//
// Mutations are serialized by an internal mutex: each one builds the next
// collection, writes it to the record store, and only then replaces the
// in-memory collection. A failed write leaves the collection untouched.
type Registry struct {
	mu      sync.Mutex
	records []ShareRecord

	store   recordstore.Store
	content contentstore.Store
	key     string
	now     func() time.Time
	log     *slog.Logger
}

// View is the per-address projection of the collection.
type View struct {
	Owned        []ShareRecord
	SharedWithMe []ShareRecord
}

// Option configures a Registry.
type Option func(*Registry)

// WithKey sets the record store key. Empty keys are ignored.
func WithKey(key string) Option {
	return func(r *Registry) {
		if key != "" {
			r.key = key
		}
	}
}

// WithClock sets the time source used for SharedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates an empty Registry. Call Load to read the persisted collection,
// or use Open.
func New(store recordstore.Store, content contentstore.Store, opts ...Option) *Registry {
	r := &Registry{
		records: []ShareRecord{},
		store:   store,
		content: content,
		key:     DefaultKey,
		now:     time.Now,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates a Registry and loads the persisted collection.
func Open(ctx context.Context, store recordstore.Store, content contentstore.Store, opts ...Option) (*Registry, error) {
	r := New(store, content, opts...)
	if err := r.Load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Load replaces the in-memory collection with the persisted one.
//
// An absent key or an unparsable blob yields an empty collection; the decode
// error is logged, not returned. Stored records that break the address
// invariants are dropped. Only a failing record store read is returned, as an
// *UpstreamError.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, recordstore.ErrNotFound) {
		r.records = []ShareRecord{}
		return nil
	}
	if err != nil {
		return &UpstreamError{Service: ServiceRecordStore, Op: "get", Err: err}
	}

	decoded, err := DecodeRecords(data)
	if err != nil {
		var de *PersistenceDecodeError
		if errors.As(err, &de) {
			de.Key = r.key
		}
		r.log.WarnContext(ctx, "stored records unreadable, starting empty", "key", r.key, "error", err)
		r.records = []ShareRecord{}
		return nil
	}

	records := make([]ShareRecord, 0, len(decoded))
	for _, rec := range decoded {
		norm, err := normalizeRecord(rec)
		if err != nil {
			r.log.WarnContext(ctx, "dropping invalid stored record", "cid", rec.ContentID, "error", err)
			continue
		}
		records = upsert(records, norm)
	}
	r.records = records
	return nil
}

// Persist writes the full current collection to the record store.
func (r *Registry) Persist(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, r.records)
}

// write serializes records and overwrites the stored blob. Callers hold r.mu.
func (r *Registry) write(ctx context.Context, records []ShareRecord) error {
	data, err := EncodeRecords(records)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return &UpstreamError{Service: ServiceRecordStore, Op: "put", Err: err}
	}
	return nil
}

// commit persists next and, on success, makes it the current collection.
// Callers hold r.mu.
func (r *Registry) commit(ctx context.Context, next []ShareRecord) error {
	if err := r.write(ctx, next); err != nil {
		return err
	}
	r.records = next
	return nil
}

// Upload stores data in the content store and records owner as its uploader.
//
// owner must be a valid address; it is normalized before use. If the content
// store fails the registry is not touched and an *UpstreamError is returned.
// Uploading content whose id is already present replaces that record, clearing
// any recipient.
func (r *Registry) Upload(ctx context.Context, owner string, data []byte, displayName string) (ShareRecord, error) {
	norm, err := address.Normalize(owner)
	if err != nil {
		return ShareRecord{}, &ValidationError{Field: "owner", Value: owner, Err: err}
	}

	cid, err := r.content.Put(ctx, displayName, data)
	if err != nil {
		r.log.DebugContext(ctx, "upload failed", "owner", norm, "name", displayName, "error", err)
		return ShareRecord{}, &UpstreamError{Service: ServiceContentStore, Op: "put", Err: err}
	}

	rec := ShareRecord{
		ContentID:   cid,
		DisplayName: displayName,
		Owner:       norm,
		Recipient:   "",
		SharedAt:    r.now().UnixMilli(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commit(ctx, upsert(r.snapshot(), rec)); err != nil {
		return ShareRecord{}, err
	}
	r.log.DebugContext(ctx, "uploaded", "cid", cid, "owner", norm, "size", len(data))
	return rec, nil
}

// ShareWith grants recipientRaw visibility of record.
//
// recipientRaw must be 0x followed by 40 hex characters in any case and
// must differ from caller, which must itself be a valid address. The stored record for record.ContentID is replaced
// by a copy carrying the normalized recipient and a fresh SharedAt, so any
// earlier recipient loses visibility. Rejected input leaves the registry and
// the persisted blob unchanged.
func (r *Registry) ShareWith(ctx context.Context, record ShareRecord, recipientRaw, caller string) (ShareRecord, error) {
	recipient, err := address.Normalize(recipientRaw)
	if err != nil {
		return ShareRecord{}, &ValidationError{Field: "recipient", Value: recipientRaw, Err: err}
	}
	self, err := address.Normalize(caller)
	if err != nil {
		return ShareRecord{}, &ValidationError{Field: "caller", Value: caller, Err: err}
	}
	if recipient == self {
		return ShareRecord{}, &ValidationError{Field: "recipient", Value: recipientRaw, Err: ErrSelfShare}
	}

	updated := record
	updated.Recipient = recipient
	updated.SharedAt = r.now().UnixMilli()
	updated, err = normalizeRecord(updated)
	if err != nil {
		return ShareRecord{}, &ValidationError{Field: "record", Value: record.ContentID, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commit(ctx, upsert(r.snapshot(), updated)); err != nil {
		return ShareRecord{}, err
	}
	r.log.DebugContext(ctx, "shared", "cid", updated.ContentID, "owner", updated.Owner, "recipient", recipient)
	return updated, nil
}

// ViewFor returns the records owned by addr and those shared with it, in
// collection order. Matching is case-insensitive; an address that is not
// well-formed matches nothing.
func (r *Registry) ViewFor(addr string) View {
	v := View{Owned: []ShareRecord{}, SharedWithMe: []ShareRecord{}}
	norm, err := address.Normalize(addr)
	if err != nil {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.Owner == norm {
			v.Owned = append(v.Owned, rec)
		}
		if rec.Recipient == norm {
			v.SharedWithMe = append(v.SharedWithMe, rec)
		}
	}
	return v
}

// Records returns a copy of the full collection.
func (r *Registry) Records() []ShareRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Lookup returns the current record for cid.
func (r *Registry) Lookup(cid string) (ShareRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := indexOf(r.records, cid); i >= 0 {
		return r.records[i], true
	}
	return ShareRecord{}, false
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Locate returns the retrieval URL of cid.
func (r *Registry) Locate(cid string) string {
	return r.content.Locate(cid)
}

// snapshot copies the collection. Callers hold r.mu.
func (r *Registry) snapshot() []ShareRecord {
	out := make([]ShareRecord, len(r.records))
	copy(out, r.records)
	return out
}

func indexOf(records []ShareRecord, cid string) int {
	for i := range records {
		if records[i].ContentID == cid {
			return i
		}
	}
	return -1
}

// upsert replaces the record with rec's content id in place, or appends rec.
func upsert(records []ShareRecord, rec ShareRecord) []ShareRecord {
	if i := indexOf(records, rec.ContentID); i >= 0 {
		records[i] = rec
		return records
	}
	return append(records, rec)
}

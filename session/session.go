// Package session wires the registry to its collaborators for one running
// session: it opens the stores named in config, tracks the caller's wallet
// address, and exposes the user-level operations.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/secureexorg/libsecureex-go/address"
	"github.com/secureexorg/libsecureex-go/alias"
	"github.com/secureexorg/libsecureex-go/config"
	"github.com/secureexorg/libsecureex-go/contentstore"
	"github.com/secureexorg/libsecureex-go/identity"
	"github.com/secureexorg/libsecureex-go/logging"
	"github.com/secureexorg/libsecureex-go/recordstore"
	"github.com/secureexorg/libsecureex-go/registry"
)

// Session is one user's view of the registry.
type Session struct {
	reg      *registry.Registry
	records  recordstore.Store
	content  contentstore.Store
	provider identity.Provider
	resolver alias.TXTResolver
	log      *slog.Logger
	logClose io.Closer

	mu   sync.RWMutex
	addr string // normalized; "" until connected
}

type options struct {
	records  recordstore.Store
	content  contentstore.Store
	provider identity.Provider
	resolver alias.TXTResolver
	log      *slog.Logger
	now      func() time.Time
}

// Option overrides a collaborator that Open would otherwise build from config.
type Option func(*options)

// WithRecordStore sets the record store. The session closes it on Close.
func WithRecordStore(s recordstore.Store) Option { return func(o *options) { o.records = s } }

// WithContentStore sets the content store.
func WithContentStore(s contentstore.Store) Option { return func(o *options) { o.content = s } }

// WithProvider sets the identity provider.
func WithProvider(p identity.Provider) Option { return func(o *options) { o.provider = p } }

// WithResolver sets the handle resolver.
func WithResolver(r alias.TXTResolver) Option { return func(o *options) { o.resolver = r } }

// WithLogger sets the logger. Without it Open builds one from the log settings
// in config.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithClock sets the registry time source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// Open validates cfg, builds the collaborators it names unless overridden,
// and loads the registry.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Session, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var logClose io.Closer
	if o.log == nil {
		l, c, err := logging.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("session: logging: %w", err)
		}
		o.log, logClose = l, c
	}

	s, err := open(ctx, cfg, o)
	if err != nil {
		if logClose != nil {
			_ = logClose.Close()
		}
		return nil, err
	}
	s.logClose = logClose
	return s, nil
}

func open(ctx context.Context, cfg config.Config, o options) (*Session, error) {
	if o.resolver == nil {
		o.resolver = NewResolver(cfg.DNS)
	}
	if o.provider == nil {
		p, err := NewProvider(cfg.Identity)
		if err != nil {
			return nil, fmt.Errorf("session: identity: %w", err)
		}
		o.provider = p
	}
	if o.content == nil {
		c, err := NewContentStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("session: content store: %w", err)
		}
		o.content = c
	}
	if o.records == nil {
		r, err := recordstore.Open(cfg.RecordBackend, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("session: record store: %w", err)
		}
		o.records = r
	}

	regOpts := []registry.Option{registry.WithKey(cfg.StorageKey), registry.WithLogger(o.log)}
	if o.now != nil {
		regOpts = append(regOpts, registry.WithClock(o.now))
	}
	reg, err := registry.Open(ctx, o.records, o.content, regOpts...)
	if err != nil {
		_ = o.records.Close()
		return nil, err
	}

	o.log.InfoContext(ctx, "session opened",
		"record_backend", cfg.RecordBackend, "content_backend", cfg.ContentBackend, "records", reg.Len())

	return &Session{
		reg:      reg,
		records:  o.records,
		content:  o.content,
		provider: o.provider,
		resolver: o.resolver,
		log:      o.log,
	}, nil
}

// Close closes the record store and the log file, if any.
func (s *Session) Close() error {
	err := s.records.Close()
	if s.logClose != nil {
		if cerr := s.logClose.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Registry returns the underlying registry.
func (s *Session) Registry() *registry.Registry {
	return s.reg
}

// Address returns the connected address, or "" when not connected.
func (s *Session) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Connect asks the identity provider for the caller's address and remembers
// it. Provider failures are *registry.UpstreamError values.
func (s *Session) Connect(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", ErrNoProvider
	}
	raw, err := s.provider.ResolveAddress(ctx)
	if err != nil {
		return "", &registry.UpstreamError{Service: registry.ServiceIdentity, Op: "resolve", Err: err}
	}
	norm, err := address.Normalize(raw)
	if err != nil {
		return "", &registry.UpstreamError{Service: registry.ServiceIdentity, Op: "resolve", Err: err}
	}

	s.mu.Lock()
	s.addr = norm
	s.mu.Unlock()

	s.log.DebugContext(ctx, "connected", "address", norm)
	return norm, nil
}

// Disconnect forgets the connected address.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.addr = ""
	s.mu.Unlock()
}

func (s *Session) caller() (string, error) {
	addr := s.Address()
	if addr == "" {
		return "", ErrNotConnected
	}
	return addr, nil
}

// Upload stores data under displayName for the connected caller.
func (s *Session) Upload(ctx context.Context, data []byte, displayName string) (registry.ShareRecord, error) {
	owner, err := s.caller()
	if err != nil {
		return registry.ShareRecord{}, err
	}
	return s.reg.Upload(ctx, owner, data, displayName)
}

// Share grants recipient visibility of the caller's content cid. recipient
// is either a wallet address or a name@domain handle resolved through DNS.
func (s *Session) Share(ctx context.Context, cid, recipient string) (registry.ShareRecord, error) {
	caller, err := s.caller()
	if err != nil {
		return registry.ShareRecord{}, err
	}

	rec, ok := s.reg.Lookup(cid)
	if !ok {
		return registry.ShareRecord{}, fmt.Errorf("%w: %q", ErrUnknownContent, cid)
	}
	if rec.Owner != caller {
		return registry.ShareRecord{}, &registry.ValidationError{Field: "caller", Value: caller, Err: ErrNotOwner}
	}

	if alias.IsHandle(recipient) {
		resolved, err := s.resolveHandle(ctx, recipient)
		if err != nil {
			return registry.ShareRecord{}, err
		}
		recipient = resolved
	}
	return s.reg.ShareWith(ctx, rec, recipient, caller)
}

// resolveHandle maps alias failures onto the registry error kinds: bad
// handles, unpublished handles and bad published addresses are validation
// errors, lookup failures are upstream errors.
func (s *Session) resolveHandle(ctx context.Context, handle string) (string, error) {
	addr, err := alias.ResolveWithResolver(ctx, handle, s.resolver)
	switch {
	case err == nil:
		s.log.DebugContext(ctx, "resolved handle", "handle", handle, "address", addr)
		return addr, nil
	case errors.Is(err, alias.ErrInvalidHandle), errors.Is(err, alias.ErrNoAddressRecord),
		errors.Is(err, address.ErrInvalidAddress), errors.Is(err, address.ErrEmptyAddress):
		return "", &registry.ValidationError{Field: "recipient", Value: handle, Err: err}
	default:
		return "", &registry.UpstreamError{Service: registry.ServiceAlias, Op: "resolve", Err: err}
	}
}

// View returns the connected caller's owned and incoming records. It is
// empty when not connected.
func (s *Session) View() registry.View {
	return s.reg.ViewFor(s.Address())
}

// FileURL returns the retrieval URL for cid.
func (s *Session) FileURL(cid string) string {
	return s.reg.Locate(cid)
}

// Watch follows the provider's change events until ctx is done or the event
// channel closes. Every event triggers a fresh Connect; a failed Connect
// leaves the session disconnected. It returns ErrNoNotifier if the provider
// does not emit events.
func (s *Session) Watch(ctx context.Context) error {
	n, ok := s.provider.(identity.Notifier)
	if !ok || n.Events() == nil {
		return ErrNoNotifier
	}
	events := n.Events()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				s.Disconnect()
				return nil
			}
			s.handleEvent(ctx, ev)
		}
	}
}

func (s *Session) handleEvent(ctx context.Context, ev identity.Event) {
	if ev.Kind == identity.Disconnect || (ev.Kind == identity.AccountsChanged && len(ev.Accounts) == 0) {
		s.Disconnect()
		s.log.InfoContext(ctx, "wallet disconnected", "event", ev.Kind.String())
		return
	}
	addr, err := s.Connect(ctx)
	if err != nil {
		s.Disconnect()
		s.log.WarnContext(ctx, "re-resolving identity failed", "event", ev.Kind.String(), "error", err)
		return
	}
	s.log.InfoContext(ctx, "identity changed", "event", ev.Kind.String(), "address", addr)
}

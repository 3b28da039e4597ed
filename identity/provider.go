// Package identity resolves the wallet address of the calling user.
//
// Providers return addresses as reported by the wallet. Callers normalize
// them with the address package before comparing.
package identity

import (
	"context"

	"github.com/secureexorg/libsecureex-go/address"
)

// Provider resolves the caller's wallet address.
type Provider interface {
	// ResolveAddress returns the current account address, or an error such
	// as ErrUserRejected, ErrRequestPending or ErrProviderUnavailable.
	ResolveAddress(ctx context.Context) (string, error)
}

// EventKind identifies a wallet change notification.
type EventKind int

const (
	// AccountsChanged is emitted when the selected account switches. An
	// empty Accounts list means the wallet was locked or disconnected.
	AccountsChanged EventKind = iota + 1

	// ChainChanged is emitted when the wallet switches network.
	ChainChanged

	// Disconnect is emitted when the provider loses its connection.
	Disconnect
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case AccountsChanged:
		return "accountsChanged"
	case ChainChanged:
		return "chainChanged"
	case Disconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Event is a wallet change notification.
type Event struct {
	Kind     EventKind
	Accounts []string
	ChainID  string
}

// Notifier is implemented by providers that push change notifications. The
// channel is closed when the provider shuts down.
type Notifier interface {
	Events() <-chan Event
}

// StaticProvider always resolves to the same address.
type StaticProvider struct {
	addr string
}

// Compile-time interface check.
var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider validates addr and returns a provider for it.
func NewStaticProvider(addr string) (*StaticProvider, error) {
	if err := address.Validate(addr); err != nil {
		return nil, err
	}
	return &StaticProvider{addr: addr}, nil
}

// ResolveAddress returns the configured address.
func (p *StaticProvider) ResolveAddress(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.addr, nil
}

// MockProvider is a test double for Provider and Notifier.
// ResolveAddressFn must be set before ResolveAddress is called.
type MockProvider struct {
	ResolveAddressFn func(ctx context.Context) (string, error)
	EventsCh         chan Event
}

func (m *MockProvider) ResolveAddress(ctx context.Context) (string, error) {
	return m.ResolveAddressFn(ctx)
}

func (m *MockProvider) Events() <-chan Event {
	return m.EventsCh
}

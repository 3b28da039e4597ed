package alias

import (
	"context"
	"net"
)

// TXTResolver looks up TXT records. Tests substitute their own.
type TXTResolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// defaultTXTResolver wraps the system resolver.
type defaultTXTResolver struct{}

func (defaultTXTResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	return net.DefaultResolver.LookupTXT(ctx, name)
}

// DefaultResolver is the production resolver using the system DNS settings.
var DefaultResolver TXTResolver = defaultTXTResolver{}

// MockResolver is a TXTResolver backed by a map of owner name to records.
// Names absent from Records fail with a not-found *net.DNSError.
type MockResolver struct {
	Records map[string][]string
	Err     error
}

// Compile-time interface check.
var _ TXTResolver = (*MockResolver)(nil)

func (m *MockResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	txts, ok := m.Records[name]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}
	return txts, nil
}

package alias

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secureexorg/libsecureex-go/address"
)

const bobAddr = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB2222"

type resolverFunc func(ctx context.Context, name string) ([]string, error)

func (f resolverFunc) LookupTXT(ctx context.Context, name string) ([]string, error) {
	return f(ctx, name)
}

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    Handle
		wantErr bool
	}{
		{"bob@example.com", Handle{"bob", "example.com"}, false},
		{"  Bob@Example.COM. ", Handle{"bob", "example.com"}, false},
		{"bob_1@sub.example.org", Handle{"bob_1", "sub.example.org"}, false},
		{"bob", Handle{}, true},
		{"@example.com", Handle{}, true},
		{"bob@", Handle{}, true},
		{"bob@localhost", Handle{}, true},
		{"b.ob@example.com", Handle{}, true},
		{"bob@ex ample.com", Handle{}, true},
		{"bob@a@b.com", Handle{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHandle(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHandle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Name+"@"+tt.want.Domain, got.String())
		})
	}
}

func TestHandle_RecordNames(t *testing.T) {
	h := Handle{Name: "bob", Domain: "example.com"}
	assert.Equal(t, "bob._secureex.example.com", h.RecordName())
	assert.Equal(t, "_secureex.example.com", h.DomainRecordName())
}

func TestIsHandle(t *testing.T) {
	assert.True(t, IsHandle("bob@example.com"))
	assert.False(t, IsHandle(bobAddr))
}

func TestResolve_PerNameRecord(t *testing.T) {
	r := &MockResolver{Records: map[string][]string{
		"bob._secureex.example.com": {"v=spf1 -all", " secureex=" + bobAddr + " "},
		"_secureex.example.com":     {"secureex=0xcccccccccccccccccccccccccccccccccccc3333"},
	}}
	got, err := ResolveWithResolver(context.Background(), "bob@example.com", r)
	require.NoError(t, err)
	assert.Equal(t, "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb2222", got)
}

func TestResolve_DomainFallback(t *testing.T) {
	r := &MockResolver{Records: map[string][]string{
		"_secureex.example.com": {"secureex=0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC3333"},
	}}
	got, err := ResolveWithResolver(context.Background(), "carol@example.com", r)
	require.NoError(t, err)
	assert.Equal(t, "0xcccccccccccccccccccccccccccccccccccc3333", got)
}

func TestResolve_NoRecord(t *testing.T) {
	r := &MockResolver{Records: map[string][]string{
		"bob._secureex.example.com": {"something=else"},
	}}
	_, err := ResolveWithResolver(context.Background(), "bob@example.com", r)
	assert.ErrorIs(t, err, ErrNoAddressRecord)
}

func TestResolve_UnpublishedHandle(t *testing.T) {
	_, err := ResolveWithResolver(context.Background(), "nobody@example.com", &MockResolver{})
	assert.ErrorIs(t, err, ErrNoAddressRecord)
	assert.NotErrorIs(t, err, ErrDNSLookupFailed)
}

func TestResolve_FallbackFailureWins(t *testing.T) {
	r := resolverFunc(func(ctx context.Context, name string) ([]string, error) {
		if name == "bob._secureex.example.com" {
			return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
		}
		return nil, &net.DNSError{Err: "i/o timeout", Name: name, IsTimeout: true}
	})
	_, err := ResolveWithResolver(context.Background(), "bob@example.com", r)
	assert.ErrorIs(t, err, ErrDNSLookupFailed)
	assert.NotErrorIs(t, err, ErrNoAddressRecord)
}

func TestResolve_LookupFailure(t *testing.T) {
	r := &MockResolver{Err: errors.New("network down")}
	_, err := ResolveWithResolver(context.Background(), "bob@example.com", r)
	assert.ErrorIs(t, err, ErrDNSLookupFailed)
}

func TestResolve_MalformedPublishedAddress(t *testing.T) {
	r := &MockResolver{Records: map[string][]string{
		"bob._secureex.example.com": {"secureex=0x1234"},
	}}
	_, err := ResolveWithResolver(context.Background(), "bob@example.com", r)
	assert.ErrorIs(t, err, address.ErrInvalidAddress)
	assert.NotErrorIs(t, err, ErrDNSLookupFailed)
}

func TestResolve_InvalidHandle(t *testing.T) {
	_, err := ResolveWithResolver(context.Background(), "not-a-handle", &MockResolver{})
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

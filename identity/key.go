package identity

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/secureexorg/libsecureex-go/address"
)

// KeyProvider derives the caller's address from a local secp256k1 key.
type KeyProvider struct {
	addr string
}

// Compile-time interface check.
var _ Provider = (*KeyProvider)(nil)

// NewKeyProvider derives the account address of priv.
func NewKeyProvider(priv *ec.PrivateKey) (*KeyProvider, error) {
	if priv == nil {
		return nil, ErrNilKey
	}
	addr, err := address.FromPublicKey(priv.PubKey())
	if err != nil {
		return nil, fmt.Errorf("identity: derive address: %w", err)
	}
	return &KeyProvider{addr: addr}, nil
}

// NewKeyProviderFromHex parses a 32-byte hex private key, with or without a
// 0x prefix.
func NewKeyProviderFromHex(s string) (*KeyProvider, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("identity: decode private key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("identity: private key must be 32 bytes, got %d", len(raw))
	}
	priv, _ := ec.PrivateKeyFromBytes(raw)
	return NewKeyProvider(priv)
}

// ResolveAddress returns the derived address.
func (p *KeyProvider) ResolveAddress(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.addr, nil
}

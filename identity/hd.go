package identity

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128
	Mnemonic24Words = 256

	// BIP44 path constants for Ethereum-style accounts.
	PurposeBIP44  = 44
	CoinTypeEther = 60
	ExternalChain = 0
	Hardened      = 0x80000000
	MaxAccountIdx = Hardened - 1
)

// GenerateMnemonic creates a new BIP39 mnemonic with the given entropy bits.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("identity: generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("identity: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether mnemonic is valid BIP39.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 64-byte BIP39 seed. passphrase may be empty.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("identity: derive seed: %w", err)
	}
	return seed, nil
}

// HDProvider resolves the address of one account of an HD wallet, derived at
// m/44'/60'/0'/0/index.
type HDProvider struct {
	*KeyProvider
	path string
}

// Compile-time interface check.
var _ Provider = (*HDProvider)(nil)

// NewHDProvider derives account index from a BIP39 seed.
func NewHDProvider(seed []byte, index uint32) (*HDProvider, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if index > MaxAccountIdx {
		return nil, fmt.Errorf("%w: index %d is hardened", ErrDerivationFailed, index)
	}

	master, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	key := master
	for i, child := range []uint32{
		PurposeBIP44 + Hardened,
		CoinTypeEther + Hardened,
		0 + Hardened,
		ExternalChain,
		index,
	} {
		key, err = key.Child(child)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, i+1, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract private key: %w", ErrDerivationFailed, err)
	}
	kp, err := NewKeyProvider(priv)
	if err != nil {
		return nil, err
	}
	return &HDProvider{
		KeyProvider: kp,
		path:        fmt.Sprintf("m/44'/60'/0'/0/%d", index),
	}, nil
}

// NewMnemonicProvider derives account index from a mnemonic and passphrase.
func NewMnemonicProvider(mnemonic, passphrase string, index uint32) (*HDProvider, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewHDProvider(seed, index)
}

// Path returns the derivation path.
func (p *HDProvider) Path() string { return p.path }

package identity

import "errors"

var (
	// ErrUserRejected indicates the user declined the connection request (EIP-1193 code 4001).
	ErrUserRejected = errors.New("identity: connection request rejected by user")

	// ErrRequestPending indicates the wallet is already processing a request (code -32002).
	ErrRequestPending = errors.New("identity: wallet is already processing a connection request")

	// ErrProviderUnavailable indicates no wallet provider could be reached.
	ErrProviderUnavailable = errors.New("identity: wallet provider unavailable")

	// ErrNoAccounts indicates the provider returned no accounts.
	ErrNoAccounts = errors.New("identity: no accounts returned by provider")

	// ErrInvalidResponse indicates the provider returned a malformed response.
	ErrInvalidResponse = errors.New("identity: invalid provider response")

	// ErrNilKey indicates a nil private key was supplied.
	ErrNilKey = errors.New("identity: private key is nil")

	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("identity: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("identity: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty.
	ErrInvalidSeed = errors.New("identity: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("identity: key derivation failed")

	// ErrDecryptionFailed indicates a wrong password or corrupted keystore.
	ErrDecryptionFailed = errors.New("identity: keystore decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("identity: keystore checksum mismatch")
)

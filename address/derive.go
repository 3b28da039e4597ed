package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"golang.org/x/crypto/sha3"
)

// uncompressedKeySize is the length of a SEC1 uncompressed public key.
const uncompressedKeySize = 65

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// FromPublicKey derives the account address of a secp256k1 public key:
// the last 20 bytes of Keccak-256 over the 64-byte X||Y encoding.
func FromPublicKey(pub *ec.PublicKey) (string, error) {
	if pub == nil {
		return "", fmt.Errorf("%w: nil key", ErrInvalidPubKey)
	}
	raw := pub.Uncompressed()
	if len(raw) != uncompressedKeySize || raw[0] != 0x04 {
		return "", fmt.Errorf("%w: unexpected uncompressed encoding", ErrInvalidPubKey)
	}
	digest := keccak256(raw[1:])
	var out [Size]byte
	copy(out[:], digest[len(digest)-Size:])
	return FromBytes(out), nil
}

// Checksum renders a valid address in EIP-55 mixed-case form. The result
// normalizes back to the same address.
func Checksum(s string) (string, error) {
	n, err := Normalize(s)
	if err != nil {
		return "", err
	}
	body := n[len(Prefix):]
	digest := hex.EncodeToString(keccak256([]byte(body)))

	var sb strings.Builder
	sb.Grow(TextLength)
	sb.WriteString(Prefix)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// IsChecksummed reports whether s is a valid address already written in its
// EIP-55 form.
func IsChecksummed(s string) bool {
	cs, err := Checksum(s)
	if err != nil {
		return false
	}
	return cs == s
}

package contentstore

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// CIDv1 header for a raw block addressed by a sha2-256 multihash.
const (
	cidVersion1   = 0x01
	codecRaw      = 0x55
	multihashSHA2 = 0x12
	sha256Length  = 0x20

	// multibaseBase32 is the multibase prefix for lowercase RFC 4648 base32.
	multibaseBase32 = "b"
)

var base32Lower = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// ComputeCID returns the CIDv1 (raw codec, sha2-256, base32) of data.
func ComputeCID(data []byte) string {
	digest := sha256.Sum256(data)
	buf := make([]byte, 0, 4+len(digest))
	buf = append(buf, cidVersion1, codecRaw, multihashSHA2, sha256Length)
	buf = append(buf, digest[:]...)
	return multibaseBase32 + base32Lower.EncodeToString(buf)
}

// validateCID rejects content ids that cannot safely be used as a file name
// or object key.
func validateCID(cid string) error {
	if len(cid) < 2 {
		return ErrInvalidCID
	}
	if strings.ContainsAny(cid, `/\.:`) {
		return ErrInvalidCID
	}
	return nil
}

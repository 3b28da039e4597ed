// Package address validates and normalizes wallet addresses.
//
// A wallet address is a 20-byte account identifier rendered as "0x" followed
// by 40 hexadecimal characters. Input is accepted in any case; every
// comparison inside the library uses the lowercase form returned by Normalize.
package address

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

const (
	// Size is the length of an address in bytes.
	Size = 20

	// Prefix is the textual prefix of every address.
	Prefix = "0x"

	// TextLength is the length of a rendered address including the prefix.
	TextLength = len(Prefix) + 2*Size
)

var pattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Valid reports whether s matches ^0x[0-9a-fA-F]{40}$.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Validate returns nil if s is a well-formed address.
// Leading or trailing whitespace makes the address invalid.
func Validate(s string) error {
	if s == "" {
		return ErrEmptyAddress
	}
	if !Valid(s) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return nil
}

// Normalize validates s and returns its lowercase form.
// Normalize is idempotent: Normalize(Normalize(a)) == Normalize(a).
func Normalize(s string) (string, error) {
	if err := Validate(s); err != nil {
		return "", err
	}
	return strings.ToLower(s), nil
}

// MustNormalize is like Normalize but panics on invalid input.
// It is intended for constants and tests.
func MustNormalize(s string) string {
	n, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Equal reports whether a and b are the same valid address, ignoring case.
func Equal(a, b string) bool {
	na, err := Normalize(a)
	if err != nil {
		return false
	}
	nb, err := Normalize(b)
	if err != nil {
		return false
	}
	return na == nb
}

// Bytes decodes a valid address into its 20 raw bytes.
func Bytes(s string) ([Size]byte, error) {
	var out [Size]byte
	n, err := Normalize(s)
	if err != nil {
		return out, err
	}
	if _, err := hex.Decode(out[:], []byte(n[len(Prefix):])); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return out, nil
}

// FromBytes renders raw address bytes in normalized form.
func FromBytes(b [Size]byte) string {
	return Prefix + hex.EncodeToString(b[:])
}

// Shorten renders an address for display as the first 6 and last 4
// characters, e.g. "0xabcd...1234". Strings too short to abbreviate are
// returned unchanged.
func Shorten(s string) string {
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

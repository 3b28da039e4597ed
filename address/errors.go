package address

import "errors"

var (
	// ErrEmptyAddress indicates no address was supplied.
	ErrEmptyAddress = errors.New("address: empty address")

	// ErrInvalidAddress indicates the input is not 0x followed by 40 hex characters.
	ErrInvalidAddress = errors.New("address: invalid wallet address (must be 0x + 40 hex characters)")

	// ErrInvalidPubKey indicates a public key could not be used for derivation.
	ErrInvalidPubKey = errors.New("address: invalid public key")
)

package alias

import "errors"

var (
	// ErrInvalidHandle indicates the input is not of the form name@domain.
	ErrInvalidHandle = errors.New("alias: invalid handle")

	// ErrDNSLookupFailed indicates a DNS TXT lookup failed.
	ErrDNSLookupFailed = errors.New("alias: DNS lookup failed")

	// ErrDNSSECValidationFailed indicates the upstream resolver did not set
	// the AD flag on its response.
	ErrDNSSECValidationFailed = errors.New("alias: DNSSEC validation failed")

	// ErrNoAddressRecord indicates no secureex= TXT record was published.
	ErrNoAddressRecord = errors.New("alias: no address record")
)

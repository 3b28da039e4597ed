package alias

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/secureexorg/libsecureex-go/address"
)

// Resolve resolves handle to a normalized address using DefaultResolver.
func Resolve(ctx context.Context, handle string) (string, error) {
	return ResolveWithResolver(ctx, handle, DefaultResolver)
}

// ResolveWithResolver resolves handle using r.
//
// The per-name record is tried first, then the domain-wide record. When
// neither name publishes an address the error wraps ErrNoAddressRecord; any
// other lookup failure wraps ErrDNSLookupFailed. A published value that is
// not a valid address fails with an error wrapping address.ErrInvalidAddress.
func ResolveWithResolver(ctx context.Context, handle string, r TXTResolver) (string, error) {
	h, err := ParseHandle(handle)
	if err != nil {
		return "", err
	}

	addr, err := lookupAddress(ctx, r, h.RecordName())
	if err == nil {
		return normalizeResult(h, addr)
	}
	fallback, ferr := lookupAddress(ctx, r, h.DomainRecordName())
	if ferr == nil {
		return normalizeResult(h, fallback)
	}
	if errors.Is(err, ErrNoAddressRecord) && !errors.Is(ferr, ErrNoAddressRecord) {
		return "", ferr
	}
	return "", err
}

// lookupAddress returns the value of the first secureex= TXT record at name.
func lookupAddress(ctx context.Context, r TXTResolver, name string) (string, error) {
	txts, err := r.LookupTXT(ctx, name)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return "", fmt.Errorf("%w: %s does not exist: %w", ErrNoAddressRecord, name, err)
		}
		return "", fmt.Errorf("%w: TXT lookup for %s: %w", ErrDNSLookupFailed, name, err)
	}
	for _, txt := range txts {
		txt = strings.TrimSpace(txt)
		if v, ok := strings.CutPrefix(txt, recordPrefix); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", fmt.Errorf("%w: no %s TXT record for %s", ErrNoAddressRecord, recordPrefix, name)
}

func normalizeResult(h Handle, raw string) (string, error) {
	norm, err := address.Normalize(raw)
	if err != nil {
		return "", fmt.Errorf("alias: %s publishes %w", h, err)
	}
	return norm, nil
}

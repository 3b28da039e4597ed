// Package alias resolves human handles of the form name@domain to wallet
// addresses published in DNS.
//
// A domain publishes a TXT record "secureex=<address>" at
// <name>._secureex.<domain>. A record at _secureex.<domain> acts as the
// domain-wide fallback for names without their own record.
package alias

import (
	"fmt"
	"strings"
)

// Handle is a parsed name@domain.
type Handle struct {
	Name   string
	Domain string
}

// String returns name@domain.
func (h Handle) String() string {
	return h.Name + "@" + h.Domain
}

// IsHandle reports whether s looks like a handle rather than an address.
func IsHandle(s string) bool {
	return strings.Contains(s, "@")
}

// ParseHandle parses name@domain. Both parts are lowercased; the domain must
// contain a dot and neither part may contain whitespace.
func ParseHandle(s string) (Handle, error) {
	s = strings.TrimSpace(s)
	name, domain, ok := strings.Cut(s, "@")
	if !ok {
		return Handle{}, fmt.Errorf("%w: missing @ in %q", ErrInvalidHandle, s)
	}
	domain = strings.TrimSuffix(domain, ".")
	if name == "" || domain == "" {
		return Handle{}, fmt.Errorf("%w: empty name or domain in %q", ErrInvalidHandle, s)
	}
	if strings.ContainsAny(name, " \t@.") {
		return Handle{}, fmt.Errorf("%w: bad name %q", ErrInvalidHandle, name)
	}
	if strings.ContainsAny(domain, " \t@") || !strings.Contains(domain, ".") {
		return Handle{}, fmt.Errorf("%w: bad domain %q", ErrInvalidHandle, domain)
	}
	return Handle{Name: strings.ToLower(name), Domain: strings.ToLower(domain)}, nil
}

// RecordName returns the per-name TXT owner name.
func (h Handle) RecordName() string {
	return h.Name + "." + recordLabel + "." + h.Domain
}

// DomainRecordName returns the domain-wide TXT owner name.
func (h Handle) DomainRecordName() string {
	return recordLabel + "." + h.Domain
}

const (
	recordLabel  = "_secureex"
	recordPrefix = "secureex="
)

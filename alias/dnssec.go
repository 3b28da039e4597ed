package alias

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// DefaultUpstream is the recursive resolver used when none is configured.
	DefaultUpstream = "8.8.8.8:53"

	queryTimeout = 10 * time.Second
	edns0BufSize = 4096
)

// UpstreamResolver queries a recursive resolver directly. With DNSSEC set it
// sends the DO bit and accepts only answers carrying the AD (Authenticated
// Data) flag.
type UpstreamResolver struct {
	// Upstream is the recursive resolver address, host:port.
	Upstream string
	// Net is "udp" (default) or "tcp".
	Net string
	// DNSSEC requires authenticated answers.
	DNSSEC bool
}

// Compile-time interface check.
var _ TXTResolver = (*UpstreamResolver)(nil)

// NewUpstreamResolver creates a plain UpstreamResolver. An empty upstream
// means DefaultUpstream.
func NewUpstreamResolver(upstream string) *UpstreamResolver {
	if upstream == "" {
		upstream = DefaultUpstream
	}
	return &UpstreamResolver{Upstream: upstream}
}

// NewDNSSECResolver creates an UpstreamResolver that requires the AD flag.
// An empty upstream means DefaultUpstream.
func NewDNSSECResolver(upstream string) *UpstreamResolver {
	r := NewUpstreamResolver(upstream)
	r.DNSSEC = true
	return r
}

func (r *UpstreamResolver) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(edns0BufSize, r.DNSSEC)

	client := &dns.Client{Net: r.Net, Timeout: queryTimeout}
	resp, _, err := client.ExchangeContext(ctx, msg, r.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s %s: %w",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype], err)
	}
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("%w: query %s %s: rcode %s",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}
	if r.DNSSEC && !resp.AuthenticatedData {
		return nil, fmt.Errorf("%w: AD flag not set for %s %s",
			ErrDNSSECValidationFailed, name, dns.TypeToString[qtype])
	}
	return resp, nil
}

// LookupTXT looks up TXT records at name. Multi-string records are joined.
// NXDOMAIN and an empty answer fail with a not-found *net.DNSError, as the
// system resolver does.
func (r *UpstreamResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	resp, err := r.exchange(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	var txts []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			txts = append(txts, strings.Join(txt.Txt, ""))
		}
	}
	if len(txts) == 0 {
		return nil, &net.DNSError{Err: "no TXT records", Name: name, Server: r.Upstream, IsNotFound: true}
	}
	return txts, nil
}

package resolver

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/miekg/dns"
)

// DNS queries a fixed list of nameservers directly, rotating between them.
type DNS struct {
	client  *dns.Client
	servers []string
	network string
	next    atomic.Uint64
}

// NewDNS creates a DNS resolver. Servers without a port get ":53".
func NewDNS(servers []string, network string) (*DNS, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("at least one nameserver is required")
	}
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		normalized = append(normalized, s)
	}
	return &DNS{
		client:  new(dns.Client),
		servers: normalized,
		network: network,
	}, nil
}

func (d *DNS) Resolve(ctx context.Context, hostname string) (string, error) {
	server := d.servers[d.next.Add(1)%uint64(len(d.servers))]

	var qtypes []uint16
	switch d.network {
	case "ip4":
		qtypes = []uint16{dns.TypeA}
	case "ip6":
		qtypes = []uint16{dns.TypeAAAA}
	default:
		qtypes = []uint16{dns.TypeA, dns.TypeAAAA}
	}

	for _, qtype := range qtypes {
		resp, err := d.query(ctx, hostname, server, qtype)
		if err != nil {
			return "", fmt.Errorf("failed to resolve domain %s: %w", hostname, err)
		}
		if addr := firstAddress(resp); addr != "" {
			return CheckAddress(addr)
		}
	}
	return "", fmt.Errorf("failed to resolve domain %s: %w", hostname, ErrNoAddress)
}

func (d *DNS) query(ctx context.Context, hostname, server string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(hostname), qtype)

	r, _, err := d.client.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, err
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("nameserver %s answered %s", server, dns.RcodeToString[r.Rcode])
	}
	return r, nil
}

// CNAME records are skipped; recursive answers carry the target's records too.
func firstAddress(r *dns.Msg) string {
	for _, answer := range r.Answer {
		switch rr := answer.(type) {
		case *dns.A:
			return rr.A.String()
		case *dns.AAAA:
			return rr.AAAA.String()
		}
	}
	return ""
}

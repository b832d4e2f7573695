// Package resolver turns hostnames into a single textual address.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// MaxAddressLength is the longest textual address accepted (INET6_ADDRSTRLEN).
const MaxAddressLength = 46

var (
	// ErrNoAddress is returned when a lookup succeeds without any usable address.
	ErrNoAddress = errors.New("no address found")
	// ErrAddressTooLong is returned when an address does not fit MaxAddressLength.
	ErrAddressTooLong = errors.New("address exceeds maximum length")
)

// Resolver resolves one hostname to one address.
type Resolver interface {
	Resolve(ctx context.Context, hostname string) (string, error)
}

// Func adapts a plain function to the Resolver interface
type Func func(ctx context.Context, hostname string) (string, error)

func (f Func) Resolve(ctx context.Context, hostname string) (string, error) {
	return f(ctx, hostname)
}

// CheckAddress verifies that addr fits the fixed-capacity address buffer
func CheckAddress(addr string) (string, error) {
	if addr == "" {
		return "", ErrNoAddress
	}
	if len(addr) > MaxAddressLength {
		return "", fmt.Errorf("%w: %d bytes", ErrAddressTooLong, len(addr))
	}
	return addr, nil
}

// System resolves through the operating system resolver
type System struct {
	resolver *net.Resolver
	network  string
}

// NewSystem creates a System resolver. network is "ip", "ip4" or "ip6".
func NewSystem(network string) *System {
	return &System{
		resolver: net.DefaultResolver,
		network:  network,
	}
}

func (s *System) Resolve(ctx context.Context, hostname string) (string, error) {
	ips, err := s.resolver.LookupIP(ctx, s.network, hostname)
	if err != nil {
		return "", fmt.Errorf("failed to resolve domain %s: %w", hostname, err)
	}
	ip := pick(ips)
	if ip == nil {
		return "", fmt.Errorf("failed to resolve domain %s: %w", hostname, ErrNoAddress)
	}
	return CheckAddress(ip.String())
}

// pick prefers the first IPv4 address, falling back to the first address.
func pick(ips []net.IP) net.IP {
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip
		}
	}
	if len(ips) > 0 {
		return ips[0]
	}
	return nil
}

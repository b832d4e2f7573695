package resolver

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs an authoritative test nameserver on 127.0.0.1.
func startServer(t *testing.T, zone map[string][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		q := r.Question[0]
		records, ok := zone[q.Name]
		if !ok {
			m.SetRcode(r, dns.RcodeNameError)
			w.WriteMsg(m)
			return
		}
		m.SetReply(r)
		for _, s := range records {
			rr, err := dns.NewRR(s)
			if err != nil {
				continue
			}
			if rr.Header().Rrtype == q.Qtype || rr.Header().Rrtype == dns.TypeCNAME {
				m.Answer = append(m.Answer, rr)
			}
		}
		w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go srv.ActivateAndServe()
	<-started
	t.Cleanup(func() { srv.Shutdown() })

	return pc.LocalAddr().String()
}

func TestDNSResolve(t *testing.T) {
	addr := startServer(t, map[string][]string{
		"a.example.":     {"a.example. 60 IN A 192.0.2.1", "a.example. 60 IN AAAA 2001:db8::1"},
		"v6.example.":    {"v6.example. 60 IN AAAA 2001:db8::2"},
		"alias.example.": {"alias.example. 60 IN CNAME a.example.", "a.example. 60 IN A 192.0.2.1"},
		"empty.example.": {},
	})

	tests := []struct {
		name     string
		network  string
		hostname string
		want     string
		wantErr  bool
	}{
		{name: "ipv4 preferred", network: "ip", hostname: "a.example", want: "192.0.2.1"},
		{name: "ipv6 fallback", network: "ip", hostname: "v6.example", want: "2001:db8::2"},
		{name: "ip6 only", network: "ip6", hostname: "a.example", want: "2001:db8::1"},
		{name: "ip4 only misses v6 host", network: "ip4", hostname: "v6.example", wantErr: true},
		{name: "cname chain", network: "ip", hostname: "alias.example", want: "192.0.2.1"},
		{name: "nxdomain", network: "ip", hostname: "b.invalid", wantErr: true},
		{name: "no records", network: "ip", hostname: "empty.example", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewDNS([]string{addr}, tt.network)
			require.NoError(t, err)

			got, err := r.Resolve(context.Background(), tt.hostname)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDNSAddsDefaultPort(t *testing.T) {
	r, err := NewDNS([]string{"192.0.2.53", "192.0.2.54:5353", "2001:db8::53"}, "ip")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.53:53", "192.0.2.54:5353", "[2001:db8::53]:53"}, r.servers)

	_, err = NewDNS(nil, "ip")
	assert.Error(t, err)
}

func TestCheckAddress(t *testing.T) {
	_, err := CheckAddress("")
	assert.ErrorIs(t, err, ErrNoAddress)

	_, err = CheckAddress(strings.Repeat("f", MaxAddressLength+1))
	assert.ErrorIs(t, err, ErrAddressTooLong)

	longest := "ffff:ffff:ffff:ffff:ffff:ffff:255.255.255.255"
	got, err := CheckAddress(longest)
	require.NoError(t, err)
	assert.Equal(t, longest, got)
}

func TestPick(t *testing.T) {
	v6 := net.ParseIP("2001:db8::1")
	v4 := net.ParseIP("192.0.2.7")

	assert.Equal(t, v4, pick([]net.IP{v6, v4}))
	assert.Equal(t, v6, pick([]net.IP{v6}))
	assert.Nil(t, pick(nil))
}

func TestSystemResolvesLocalhostLiteral(t *testing.T) {
	r := NewSystem("ip4")
	got, err := r.Resolve(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", got)
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	f := Func(func(ctx context.Context, h string) (string, error) {
		if h == "bad" {
			return "", boom
		}
		return "192.0.2.9", nil
	})

	got, err := f.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.9", got)

	_, err = f.Resolve(context.Background(), "bad")
	assert.ErrorIs(t, err, boom)
}

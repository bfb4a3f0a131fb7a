package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// IPResolver finds the client address of a request. Forwarding headers are
// honoured only when the direct peer is a trusted proxy.
type IPResolver struct {
	trusted []*net.IPNet
}

// NewIPResolver accepts IPs and CIDR ranges. An empty list trusts no proxy.
func NewIPResolver(proxies []string) (*IPResolver, error) {
	p := &IPResolver{}
	for _, entry := range proxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q is not an IP or CIDR", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			p.trusted = append(p.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		p.trusted = append(p.trusted, network)
	}
	return p, nil
}

func (p *IPResolver) isTrusted(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	for _, network := range p.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP walks X-Forwarded-For from the right, skipping trusted hops, and
// falls back to X-Real-IP and then the peer address. Only parseable IPs are
// returned from headers.
func (p *IPResolver) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !p.isTrusted(net.ParseIP(peer)) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				return peer
			}
			if !p.isTrusted(ip) {
				return ip.String()
			}
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return peer
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}

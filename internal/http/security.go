package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"
)

// securityMetrics counts rejected and flagged requests for the shutdown log.
type securityMetrics struct {
	rateLimitHits   int64
	flaggedRequests int64
}

func (m *securityMetrics) snapshot() (rateLimitHits, flagged int64) {
	return atomic.LoadInt64(&m.rateLimitHits), atomic.LoadInt64(&m.flaggedRequests)
}

// DefaultTrustedProxies are the networks allowed to set X-Forwarded-For
// when none are configured: loopback and private ranges.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"::1/128",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"fc00::/7",
}

// maxForwardedHops bounds how far back X-Forwarded-For is followed.
const maxForwardedHops = 10

// clientIPResolver decides which address a request is attributed to for
// rate limiting and logs.
type clientIPResolver struct {
	trusted []netip.Prefix
}

// newClientIPResolver parses the trusted proxy networks. Blank entries are
// skipped; an empty list trusts no one.
func newClientIPResolver(cidrs []string) (*clientIPResolver, error) {
	res := &clientIPResolver{}
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", c, err)
		}
		res.trusted = append(res.trusted, prefix.Masked())
	}
	return res, nil
}

func (c *clientIPResolver) trusts(addr netip.Addr) bool {
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the peer address unless the peer is a trusted proxy. In
// that case X-Forwarded-For is walked from the nearest hop outwards and the
// first address outside the trusted networks wins. An unparsable hop stops
// the walk at the last address that was still good.
func (c *clientIPResolver) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	client := peer.Unmap()
	if !c.trusts(client) {
		return client.String()
	}

	hops := forwardedHops(r)
	for i := len(hops) - 1; i >= 0 && len(hops)-i <= maxForwardedHops; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			break
		}
		client = addr.Unmap()
		if !c.trusts(client) {
			break
		}
	}
	return client.String()
}

// forwardedHops flattens every X-Forwarded-For header into one list,
// leftmost hop first.
func forwardedHops(r *http.Request) []string {
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hops = append(hops, h)
			}
		}
	}
	return hops
}

var (
	allowedMethods = map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodPost:    true,
		http.MethodDelete:  true,
		http.MethodOptions: true,
	}

	// Paths this API never serves but vulnerability scanners ask for.
	scannerTargets = []string{".php", ".asp", ".env", "/.git", "/wp-", "/cgi-bin", "/actuator", "/phpmyadmin"}

	scannerAgents = []string{"sqlmap", "nikto", "nuclei", "zgrab", "masscan", "gobuster", "ffuf", "nmap"}
)

const (
	maxQueryLength = 512
	maxIDLength    = 64
)

// screenRequest returns a short reason when r cannot come from a legitimate
// ledger client, or "" when it looks ordinary. Flagged requests are still
// served; the reason only feeds logs and counters.
func screenRequest(r *http.Request) string {
	if !allowedMethods[r.Method] {
		return "unexpected method"
	}

	raw := strings.ToLower(r.URL.EscapedPath())
	if strings.Contains(raw, "..") || strings.Contains(raw, "%2e%2e") || strings.Contains(raw, "%00") {
		return "path traversal"
	}

	path := strings.ToLower(r.URL.Path)
	if !isAPIPath(path) {
		for _, target := range scannerTargets {
			if strings.Contains(path, target) {
				return "scanner target"
			}
		}
	}

	if id, ok := strings.CutPrefix(r.URL.Path, "/api/transactions/"); ok && !validTransactionID(id) {
		return "malformed transaction id"
	}

	if len(r.URL.RawQuery) > maxQueryLength {
		return "oversized query"
	}

	agent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, a := range scannerAgents {
		if strings.Contains(agent, a) {
			return "scanner user agent"
		}
	}

	if len(forwardedHops(r)) > maxForwardedHops {
		return "forwarding chain too long"
	}
	return ""
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || path == "/healthz" || path == "/readyz"
}

// validTransactionID accepts ULIDs and similar opaque ids.
func validTransactionID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

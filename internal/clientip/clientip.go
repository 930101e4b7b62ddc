// Package clientip resolves the submitting client's network identity from
// the headers a trusted reverse-proxy layer sets. Header authenticity is not
// verified here; the deployment's proxy chain is assumed trustworthy.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no address can be determined at all.
const Unknown = "unknown"

// FromRequest returns the client identity for a request. Precedence:
// the edge proxy's connecting-IP header, then the first hop of the
// forwarded-for chain, then the real-IP header, then the transport address.
func FromRequest(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}

	return Unknown
}

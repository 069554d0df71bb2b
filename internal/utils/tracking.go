package utils

import (
	"net"
	"net/http"
	"strings"
)

// Client identifies where a request came from.
type Client struct {
	IP        string
	UserAgent string
}

// ClientFromRequest reads the caller's address and user agent.
func ClientFromRequest(r *http.Request) Client {
	return Client{IP: GetIPAddress(r), UserAgent: strings.TrimSpace(r.UserAgent())}
}

// 🌐 GetIPAddress prefers proxy headers, then the connection's remote host.
func GetIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

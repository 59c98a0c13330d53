// internal/session/client.go
package session

import (
	"net"
	"net/http"
)

// ClientIP returns the request's remote address without its port. Behind a
// trusted proxy it relies on the RealIP middleware having rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

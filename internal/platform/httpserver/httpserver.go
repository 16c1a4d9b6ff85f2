// Package httpserver builds the process's HTTP servers with shared defaults.
package httpserver

import (
	"net/http"
	"time"
)

const readHeaderTimeout = 5 * time.Second

// New returns a server for addr. Per-request deadlines come from the
// timeout middleware, so only the header read is bounded here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

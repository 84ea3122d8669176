// Package httpserver builds the process HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps handler in a server with bounded read and write windows. The API
// only moves small JSON bodies; anything slower than these limits is a stuck
// client.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

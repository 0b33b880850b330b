package transport

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeoutSeconds applies when a configured timeout is zero or negative.
const DefaultTimeoutSeconds = 30

// New creates an HTTP transport with strict connection-phase timeouts.
// Reading a response body is not bounded, so large artifacts can stream.
func New(timeoutSeconds int) *http.Transport {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultTimeoutSeconds
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout, // Wait for first response byte timeout
	}
}

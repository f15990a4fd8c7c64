// Package httpclient centralizes construction of the shared resty transport
// used by the API client and HTTP alert sinks.
package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewRestyHTTPClient returns a resty.Client with the specified timeout.
// Callers own the returned client and layer their base URL and headers on it.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

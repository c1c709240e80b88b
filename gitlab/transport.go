package gitlab

import (
	"crypto/tls"
	"log/slog"
	"net/http"
)

// newHTTPClient builds the HTTP client carrying the transport
// policy. With insecure set, certificate verification is disabled
// for the lifetime of the client; nothing downstream ever
// re-enables or further relaxes it, and a connection failure is
// still reported as a connectivity error.
func newHTTPClient(insecure bool) *http.Client {
	if !insecure {
		return &http.Client{}
	}

	slog.Debug(
		"tls certificate verification disabled",
	)

	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				//nolint:gosec // explicit insecure mode
				InsecureSkipVerify: true,
			},
		},
	}
}

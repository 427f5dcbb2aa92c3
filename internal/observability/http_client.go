package observability

import (
	"net/http"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

// WrapRoundTripper traces outgoing requests. Trace headers are only sent to the given hosts.
func WrapRoundTripper(base http.RoundTripper, targets ...string) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return sentryhttpclient.NewSentryRoundTripper(
		base,
		sentryhttpclient.WithTracePropagationTargets(targets),
	)
}

func NewHTTPClient(timeout time.Duration, targets ...string) *http.Client {
	client := &http.Client{
		Transport: WrapRoundTripper(http.DefaultTransport, targets...),
	}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}

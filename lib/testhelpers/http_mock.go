package testhelpers

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/jarcoal/httpmock"
)

// NewMockClient returns an HTTP client whose requests are answered by the
// returned mock transport. Unmatched requests fail with httpmock's no
// responder error.
func NewMockClient(t *testing.T) (*http.Client, *httpmock.MockTransport) {
	t.Helper()

	transport := httpmock.NewMockTransport()

	return &http.Client{Transport: transport}, transport
}

// RegisterText answers GET requests for url with a 200 response carrying body.
func RegisterText(transport *httpmock.MockTransport, url, body string) {
	transport.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusOK, body).HeaderSet(http.Header{"Content-Type": {"text/html"}}))
}

// RegisterJSON answers GET requests for url with a 200 JSON response.
func RegisterJSON(transport *httpmock.MockTransport, url, body string) {
	transport.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusOK, body).HeaderSet(http.Header{"Content-Type": {"application/json"}}))
}

// RegisterStatus answers GET requests for url with an empty response of the given status.
func RegisterStatus(transport *httpmock.MockTransport, url string, status int) {
	transport.RegisterResponder(http.MethodGet, url, httpmock.NewStringResponder(status, ""))
}

// RegisterPattern answers GET requests whose URL matches pattern with a 200 response carrying body.
func RegisterPattern(transport *httpmock.MockTransport, pattern, body string) {
	transport.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(pattern),
		httpmock.NewStringResponder(http.StatusOK, body))
}

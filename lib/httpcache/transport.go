package httpcache

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/vmihailenco/msgpack/v5"
)

const clientTimeout = 60 * time.Second

// response is the cached form of a successful GET response.
type response struct {
	StatusCode int                 `msgpack:"status"`
	Header     map[string][]string `msgpack:"header"`
	Body       []byte              `msgpack:"body"`
}

// Transport is an http.RoundTripper that answers GET requests from a Store
// and stores successful network responses in it. Other requests pass through.
type Transport struct {
	Base  http.RoundTripper
	Store Store
}

// NewTransport returns a caching Transport over base. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, store Store) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	if store == nil {
		store = NopStore{}
	}

	return &Transport{Base: base, Store: store}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.Base.RoundTrip(req)
	}

	key := req.URL.String()

	if data, ok := t.Store.Get(key); ok {
		var cached response
		if err := msgpack.Unmarshal(data, &cached); err == nil {
			appstate.Logger.Debug("HTTP cache hit", "url", key)

			return cached.toHTTP(req), nil
		}

		appstate.Logger.Warn("Discarding corrupt cached response", "url", key)
	}

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))

	data, err := msgpack.Marshal(response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body})
	if err == nil {
		err = t.Store.Put(key, data)
	}

	if err != nil {
		appstate.Logger.Warn("Failed to cache response", "error", err, "url", key)
	}

	return resp, nil
}

func (r response) toHTTP(req *http.Request) *http.Response {
	header := http.Header(r.Header).Clone()
	if header == nil {
		header = http.Header{}
	}

	header.Set("Content-Length", strconv.Itoa(len(r.Body)))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode)),
		StatusCode:    r.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

// NewClient returns an HTTP client whose GET requests go through store.
// When proxyAddress is set, requests are sent through that proxy with TLS
// verification disabled, so an intercepting proxy can be used.
func NewClient(store Store, proxyAddress string) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport %T", http.DefaultTransport)
	}

	transport := base.Clone()

	if proxyAddress != "" {
		proxyURL, err := url.Parse(proxyAddress)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy address %q: %w", proxyAddress, err)
		}

		transport.Proxy = http.ProxyURL(proxyURL)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Intercepting proxies present their own certificates

		appstate.Logger.Info("Using proxy", "proxy", proxyURL.Redacted())
	}

	return &http.Client{
		Transport: NewTransport(transport, store),
		Timeout:   clientTimeout,
	}, nil
}

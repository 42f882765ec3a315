package sources

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/pwpolicycost/lib/testhelpers"
)

func mustRegexp(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

func httpmockStatus(status int) httpmock.Responder {
	return httpmock.NewStringResponder(status, "")
}

func TestFetch(t *testing.T) {
	client, transport := testhelpers.NewMockClient(t)
	testhelpers.RegisterText(transport, "https://example.com/ok", "hello")
	testhelpers.RegisterStatus(transport, "https://example.com/missing", http.StatusNotFound)
	transport.RegisterResponder(http.MethodGet, "https://example.com/down",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	body, err := fetch(context.Background(), client, "https://example.com/ok")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	_, err = fetch(context.Background(), client, "https://example.com/missing")
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	_, err = fetch(context.Background(), client, "https://example.com/down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchJSON(t *testing.T) {
	client, transport := testhelpers.NewMockClient(t)
	testhelpers.RegisterJSON(transport, "https://example.com/good", `{"Items":[{"unitPrice":1.5}]}`)
	testhelpers.RegisterJSON(transport, "https://example.com/bad", `{"Items":`)

	var page retailPrices
	require.NoError(t, fetchJSON(context.Background(), client, "https://example.com/good", &page))
	require.Len(t, page.Items, 1)
	assert.InDelta(t, 1.5, page.Items[0].UnitPrice, 1e-9)

	err := fetchJSON(context.Background(), client, "https://example.com/bad", &page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"relative", "https://learn.example.com/en-us/azure/virtual-machines/", "sizes/nc-family", "https://learn.example.com/en-us/azure/virtual-machines/sizes/nc-family"},
		{"root relative", "https://ohc.example.com/index.php", "/bench/1.php", "https://ohc.example.com/bench/1.php"},
		{"absolute", "https://ohc.example.com/index.php", "https://cdn.example.com/x", "https://cdn.example.com/x"},
		{"parent", "https://learn.example.com/a/b/", "../c", "https://learn.example.com/a/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(tt.base, tt.href)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolve("https://example.com/", "http://[::1")
	require.Error(t, err)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "gist_bm_1", sourceName("gist", 1))
	assert.Equal(t, "ohc_bm_12", sourceName("ohc", 12))
}

func TestParseReports(t *testing.T) {
	texts := map[int]string{
		1: testhelpers.TeslaT4Report,
		2: testhelpers.MissingToolkitReport,
		4: testhelpers.RTX3090Report,
	}

	reports := parseReports("ohc", texts, 4)

	require.Len(t, reports, 2)
	assert.Equal(t, "ohc_bm_1", reports[0].Source)
	assert.Equal(t, "ohc_bm_4", reports[1].Source)
	assert.Contains(t, reports[1].Report, "NVIDIA GeForce RTX 3090 #2")
}

func TestParseReports_Empty(t *testing.T) {
	assert.Empty(t, parseReports("gist", map[int]string{}, 0))
	assert.Empty(t, parseReports("gist", map[int]string{1: "nothing here"}, 1))
}

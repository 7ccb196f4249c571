package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHTTPTransportPreservesBehavior verifies the instrumented transport
// is observationally transparent: status, headers, and body come through
// unchanged.
func TestHTTPTransportPreservesBehavior(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("X-Backend", "canteen")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := &http.Client{Transport: HTTPTransport(nil)}

	req, err := http.NewRequest(http.MethodGet, server.URL+"/dishes/popular", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "canteen", resp.Header.Get("X-Backend"))
	assert.Equal(t, `{"success":true}`, string(body))
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestHTTPTransportUsesGivenBase(t *testing.T) {
	var baseCalled bool
	base := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		baseCalled = true
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       http.NoBody,
			Header:     http.Header{},
			Request:    r,
		}, nil
	})

	client := &http.Client{Transport: HTTPTransport(base)}

	resp, err := client.Get("http://backend.invalid/dishes/popular")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.True(t, baseCalled, "requests must flow through the supplied base")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

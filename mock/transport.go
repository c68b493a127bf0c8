package mock

import (
	"net/http"
	"net/http/httptest"
)

// Transport serves requests against the mock handler in-process. Handing
// it to an http.Client lets the CLI layer run unchanged with no network:
//
//	client := &http.Client{Transport: mock.NewTransport(handler)}
type Transport struct {
	h http.Handler
}

// NewTransport returns a Transport dispatching to h.
func NewTransport(h http.Handler) *Transport {
	return &Transport{h: h}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	t.h.ServeHTTP(rec, r)

	resp := rec.Result()
	resp.Request = r
	return resp, nil
}

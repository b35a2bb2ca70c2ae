package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	if IsHTTPS(req) {
		t.Fatal("plain request reported as https")
	}
	req.TLS = &tls.ConnectionState{}
	if !IsHTTPS(req) {
		t.Fatal("tls request reported as http")
	}
	if IsHTTPS(nil) {
		t.Fatal("nil request reported as https")
	}
}

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		referer string
		want    bool
	}{
		{name: "matching origin", origin: "http://example.com", want: true},
		{name: "explicit default port", origin: "http://example.com:80", want: true},
		{name: "matching referer", referer: "http://example.com/profile/bob", want: true},
		{name: "foreign origin", origin: "http://evil.example", want: false},
		{name: "scheme mismatch", origin: "https://example.com", want: false},
		{name: "port mismatch", origin: "http://example.com:8080", want: false},
		{name: "origin wins over referer", origin: "http://evil.example", referer: "http://example.com/", want: false},
		{name: "no proof", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://example.com/follow/bob", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			if got := HasSameOriginProof(req); got != tc.want {
				t.Fatalf("HasSameOriginProof() = %v, want %v", got, tc.want)
			}
		})
	}
}

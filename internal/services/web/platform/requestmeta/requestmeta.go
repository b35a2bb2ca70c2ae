// Package requestmeta provides normalized request metadata helpers.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// IsHTTPS reports whether a request arrived over TLS.
func IsHTTPS(r *http.Request) bool {
	return requestScheme(r) == "https"
}

// HasSameOriginProof reports whether Origin or Referer proves the request
// came from a page served by this host.
func HasSameOriginProof(r *http.Request) bool {
	if r == nil {
		return false
	}
	scheme := requestScheme(r)
	host, port := requestHostParts(r.Host)
	if host == "" {
		return false
	}
	if port == "" {
		port = defaultPortForScheme(scheme)
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return sameOrigin(origin, scheme, host, port)
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return sameOrigin(referer, scheme, host, port)
	}
	return false
}

func sameOrigin(raw string, scheme string, host string, port string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	originScheme := strings.ToLower(parsed.Scheme)
	if originScheme == "" || originScheme != scheme {
		return false
	}
	if strings.ToLower(parsed.Hostname()) != host {
		return false
	}
	originPort := parsed.Port()
	if originPort == "" {
		originPort = defaultPortForScheme(originScheme)
	}
	return originPort != "" && originPort == port
}

func requestScheme(r *http.Request) string {
	if r == nil {
		return ""
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func defaultPortForScheme(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}

func requestHostParts(rawHost string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(rawHost))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}

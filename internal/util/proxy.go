package util

import (
	"net/http"
	"net/url"
)

// ProxySelector returns the proxy function for the raw HTTP backends.
// Explicitly configured proxies win over the standard HTTP_PROXY and
// HTTPS_PROXY environment variables; with neither configured, the
// environment decides.
func ProxySelector(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		switch {
		case req.URL.Scheme == "https" && httpsProxy != "":
			return url.Parse(httpsProxy)
		case httpProxy != "":
			return url.Parse(httpProxy)
		default:
			return http.ProxyFromEnvironment(req)
		}
	}
}

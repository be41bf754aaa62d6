package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func requestFor(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, rawURL, nil)
	return req
}

func TestProxySelector_SchemeRouting(t *testing.T) {
	selector := ProxySelector("http://plain-proxy:3128", "http://tls-proxy:3128")

	proxy, err := selector(requestFor(t, "https://api.anthropic.com/v1/messages"))
	if err != nil {
		t.Fatal(err)
	}
	if proxy == nil || proxy.Host != "tls-proxy:3128" {
		t.Errorf("https traffic should use the https proxy, got %v", proxy)
	}

	proxy, err = selector(requestFor(t, "http://localhost:11434/api/chat"))
	if err != nil {
		t.Fatal(err)
	}
	if proxy == nil || proxy.Host != "plain-proxy:3128" {
		t.Errorf("http traffic should use the http proxy, got %v", proxy)
	}
}

func TestProxySelector_HTTPProxyCoversBoth(t *testing.T) {
	selector := ProxySelector("http://plain-proxy:3128", "")

	proxy, err := selector(requestFor(t, "https://api.anthropic.com/v1/messages"))
	if err != nil {
		t.Fatal(err)
	}
	if proxy == nil || proxy.Host != "plain-proxy:3128" {
		t.Errorf("with no https proxy the http proxy applies, got %v", proxy)
	}
}

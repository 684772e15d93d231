package requestinfo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHost(t *testing.T) {
	cases := map[string]string{
		"www.Example.com:443": "example.com",
		"EXAMPLE.com":         "example.com",
		"shop.example.com":    "shop.example.com",
		"localhost:8080":      "localhost",
		"wwwexample.com":      "wwwexample.com",
		"[::1]:8080":          "::1",
		"[2001:DB8::1]":       "2001:db8::1",
		"127.0.0.1:3000":      "127.0.0.1",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHost(in), "host %q", in)
	}
}

func TestPropagate_HeaderContract(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderLanguage, "stale")

	Propagate(h, New("/ru/plans", "ru", "www.Example.com:443"))

	assert.Equal(t, "/ru/plans", h.Get(HeaderPathname))
	assert.Equal(t, "ru", h.Get(HeaderLanguage))
	assert.Equal(t, "example.com", h.Get(HeaderDomain))
	assert.Len(t, h.Values(HeaderLanguage), 1)

	got, ok := FromHeader(h)
	require.True(t, ok)
	assert.Equal(t, Info{Pathname: "/ru/plans", Language: "ru", Domain: "example.com"}, got)
}

func TestFromHeader_Missing(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderPathname, "/")
	_, ok := FromHeader(h)
	assert.False(t, ok)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	info := New("/about", "en", "example.com")
	got, ok := FromContext(WithInfo(context.Background(), info))
	require.True(t, ok)
	assert.Equal(t, info, got)
}

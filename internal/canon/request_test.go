package canon

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery_KeepsEverySegment(t *testing.T) {
	raw := "b=2&a=1&b=3&&c=x%20y&flag"
	q := ParseQuery(raw)

	assert.Len(t, q, 6)
	assert.Equal(t, raw, q.Encode())
	assert.True(t, q.Has("flag"))
	assert.Equal(t, "2", q.Get("b"), "first occurrence wins")
	assert.Equal(t, "x y", q.Get("c"))
	assert.Equal(t, "", q.Get("missing"))
}

func TestQuery_WithoutDropsAllOccurrences(t *testing.T) {
	q := ParseQuery("language=ru&x=1&language=en&flag")
	assert.Equal(t, "x=1&flag", q.Without("language").Encode())
	assert.Nil(t, ParseQuery(""))
}

func TestQuery_WithWithoutDoNotMutate(t *testing.T) {
	q := ParseQuery("a=1&b=2")
	added := q.With("c", "3")
	kept := q.With("a", "9")
	removed := q.Without("a")

	assert.Equal(t, "a=1&b=2", q.Encode())
	assert.Equal(t, "a=1&b=2&c=3", added.Encode())
	assert.Equal(t, "a=1&b=2", kept.Encode())
	assert.Equal(t, "b=2", removed.Encode())
}

func TestRequest_URI(t *testing.T) {
	assert.Equal(t, "/", NewRequest("", "", "h").URI())
	assert.Equal(t, "/ru", NewRequest("/ru", "", "h").URI())
	assert.Equal(t, "/a%20b?q=x%20y", NewRequest("/a b", "q=x%20y", "h").URI())
	assert.Equal(t, "q=x%20y&theme=dark+mode", ParseQuery("q=x%20y").With("theme", "dark mode").Encode())
	assert.Equal(t, "/evil.example", NewRequest("//evil.example", "", "h").URI())
}

func TestFromURL(t *testing.T) {
	u, _ := url.Parse("/ru?currency=USD")
	r := FromURL(u, "example.com")
	assert.Equal(t, "/ru", r.Path)
	assert.Equal(t, "USD", r.Query.Get("currency"))
	assert.Equal(t, "example.com", r.Host)

	u, _ = url.Parse("https://other.example/x")
	assert.Equal(t, "other.example", FromURL(u, "example.com").Host)
}

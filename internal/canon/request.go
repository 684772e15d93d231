package canon

import (
	"net/url"
	"strings"
)

// Param is one query segment.  Segments that arrived on the request keep
// their original spelling in raw ("flag", "q=a%20b").
type Param struct {
	Key   string
	Value string

	raw      string
	verbatim bool
}

// Query is an ordered query string.  Every incoming segment is kept,
// duplicates included, so a redirect only changes the keys a rule manages.
// Reads see the first occurrence of a key.  Methods never mutate the
// receiver; they return a fresh slice.
type Query []Param

// ParseQuery splits raw ("a=1&b=2") into segments, preserving order and
// spelling.
func ParseQuery(raw string) Query {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "&")
	q := make(Query, 0, len(parts))
	for _, part := range parts {
		k, v, _ := strings.Cut(part, "=")
		q = append(q, Param{Key: unescape(k), Value: unescape(v), raw: part, verbatim: true})
	}
	return q
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// Has reports whether key is present, even with an empty value.
func (q Query) Has(key string) bool {
	for _, p := range q {
		if p.Key == key {
			return true
		}
	}
	return false
}

// Get returns the first value for key or "".
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Without returns q minus every occurrence of key, other segments
// untouched and in their original order.
func (q Query) Without(key string) Query {
	out := make(Query, 0, len(q))
	for _, p := range q {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

// With appends key=value unless key is already present.  Existing values
// are never overwritten.
func (q Query) With(key, value string) Query {
	out := make(Query, len(q), len(q)+1)
	copy(out, q)
	if q.Has(key) {
		return out
	}
	return append(out, Param{Key: key, Value: value})
}

// Encode renders q without the leading "?".  Incoming segments are written
// back verbatim; added pairs are query-escaped.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		if p.verbatim {
			b.WriteString(p.raw)
			continue
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Request is the engine's immutable view of one incoming page request.
type Request struct {
	Path  string // "/ru/plans"
	Query Query
	Host  string // raw Host header, port included
}

// NewRequest builds a Request from its raw parts.
func NewRequest(path, rawQuery, host string) Request {
	return Request{Path: path, Query: ParseQuery(rawQuery), Host: host}
}

// FromURL splits a relative or absolute URL into a Request.  host is used
// when u carries none.
func FromURL(u *url.URL, host string) Request {
	if u.Host != "" {
		host = u.Host
	}
	return NewRequest(u.Path, u.RawQuery, host)
}

// URI renders path and query the way a Location header carries them.
// Leading slashes collapse to one so the result is never protocol-relative.
func (r Request) URI() string {
	path := "/" + strings.TrimLeft(r.Path, "/")
	path = (&url.URL{Path: path}).EscapedPath()
	if len(r.Query) == 0 {
		return path
	}
	return path + "?" + r.Query.Encode()
}

// firstSegment returns "ru" for "/ru/plans" and "" for "/".
func firstSegment(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i != -1 {
		p = p[:i]
	}
	return p
}

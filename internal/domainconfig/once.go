package domainconfig

import "context"

// Once memoizes a single Resolve call for one host.  It is created per
// request evaluation so the engine contacts the resolver at most once no
// matter how many rules ask.  Failures are memoized too.  Not safe for
// concurrent use; an evaluation runs on one goroutine.
type Once struct {
	r    Resolver
	host string

	done  bool
	cfg   Config
	err   error
	calls int
}

// NewOnce binds r to host.
func NewOnce(r Resolver, host string) *Once {
	return &Once{r: r, host: host}
}

// Resolve returns the memoized result, calling the resolver on first use.
func (o *Once) Resolve(ctx context.Context) (Config, error) {
	if !o.done {
		o.done = true
		o.calls++
		o.cfg, o.err = o.r.Resolve(ctx, o.host)
	}
	return o.cfg, o.err
}

// Calls reports how many times the underlying resolver was invoked (0 or 1).
func (o *Once) Calls() int { return o.calls }

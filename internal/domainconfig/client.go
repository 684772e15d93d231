// internal/domainconfig/client.go
//
// HTTP client for the domain params endpoint.
//
// Workflow
// --------
//  1. GET {base}/api/public/domain-params with Host and X-Forwarded-Host
//     set to the original request host, so the endpoint answers for the
//     right tenant even behind a proxy.
//  2. Any non-2xx status, transport error, or deadline is ErrUnavailable.
//  3. A body that is not a JSON object is ErrMalformed.  Individual fields
//     that are missing or not strings fall back to defaults.
//
// The call is bounded by Timeout via the request context.  There is no
// retry; a single failed attempt is final for that request.

package domainconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/metrics"
)

// EndpointPath is the well-known path of the domain params endpoint.
const EndpointPath = "/api/public/domain-params"

// DefaultTimeout bounds one resolver round trip when none is configured.
const DefaultTimeout = 2 * time.Second

// Client is safe for concurrent use.  It keeps no per-host state.
type Client struct {
	endpoint string
	timeout  time.Duration
	hc       *http.Client
}

// NewClient builds a Client for baseURL (scheme and host, no path).  A nil
// hc uses http.DefaultTransport; timeout <= 0 uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, hc *http.Client) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var parent http.RoundTripper
	if hc != nil && hc.Transport != nil {
		parent = hc.Transport
	} else {
		parent = http.DefaultTransport
	}
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + EndpointPath,
		timeout:  timeout,
		hc:       &http.Client{Transport: &forwardedHostTransport{parent: parent}},
	}
}

// wirePayload accepts any JSON types so a wrongly typed field degrades to a
// default instead of failing the whole answer.
type wirePayload struct {
	Language any `json:"language"`
	Currency any `json:"currency"`
	Theme    any `json:"theme"`
}

// Resolve fetches and normalizes the Config for host.
func (c *Client) Resolve(ctx context.Context, host string) (Config, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var buf bytes.Buffer
	err := requests.
		URL(c.endpoint).
		Client(c.hc).
		Header("X-Forwarded-Host", host).
		Header("Cache-Control", "no-store").
		Accept("application/json").
		ToBytesBuffer(&buf).
		Fetch(ctx)
	metrics.DomainConfigDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := metrics.OutcomeUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		metrics.DomainConfigRequestsTotal.WithLabelValues(outcome).Inc()
		zap.L().Warn("domain config resolve failed",
			zap.String("host", host),
			zap.String("outcome", outcome),
			zap.Error(err))
		return Config{}, fmt.Errorf("resolve %q: %w: %w", host, ErrUnavailable, err)
	}

	var p wirePayload
	if err := decodeObject(buf.Bytes(), &p); err != nil {
		metrics.DomainConfigRequestsTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		zap.L().Warn("domain config body is not an object",
			zap.String("host", host), zap.Error(err))
		return Config{}, fmt.Errorf("resolve %q: %w: %w", host, ErrMalformed, err)
	}

	metrics.DomainConfigRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return Normalize(Config{
		Language: asString(p.Language),
		Currency: asString(p.Currency),
		Theme:    asString(p.Theme),
	}), nil
}

// decodeObject rejects anything but a JSON object.  json.Unmarshal alone
// accepts a bare null.
func decodeObject(b []byte, p *wirePayload) error {
	if t := bytes.TrimSpace(b); len(t) == 0 || t[0] != '{' {
		return errNotObject
	}
	return json.Unmarshal(b, p)
}

var errNotObject = errors.New("body is not a JSON object")

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// forwardedHostTransport copies X-Forwarded-Host into the outbound Host
// header.  net/http ignores a "Host" entry in Header, so it has to be set
// on the request itself.
type forwardedHostTransport struct {
	parent http.RoundTripper
}

func (t *forwardedHostTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		r = r.Clone(r.Context())
		r.Host = h
	}
	return t.parent.RoundTrip(r)
}

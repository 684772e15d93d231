// internal/accesslog/accesslog.go
//
// Structured access log for the edge.
//
/*
Context
--------
One INFO line per request, written after the response, carrying:

  • method, path, raw query, status, bytes, and latency
  • the engine's outcome: Location for redirects, x-language and x-domain
    for passthroughs
  • browser family, device class, and bot flag (uasurfer)
  • client IP and, when a GeoLite2 database is configured, country ISO

Bots are logged like everyone else; the flag only helps when reading
redirect storms in the logs.

Notes
-----
  • The GeoIP reader is optional and read-only, so the middleware is safe
    under heavy concurrency.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package accesslog

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/requestinfo"
)

/*──────────────────────────── geo lookup ───────────────────────────────────*/

// Geo wraps an optional MaxMind reader.  The zero value performs no
// lookups.
type Geo struct {
	reader *geoip2.Reader
}

// OpenGeo opens a GeoLite2 Country or City database.  An empty path
// returns a no-op Geo.
func OpenGeo(path string) (*Geo, error) {
	if path == "" {
		return &Geo{}, nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Geo{reader: r}, nil
}

// Country returns the ISO code for ip or "".
func (g *Geo) Country(ip net.IP) string {
	if g == nil || g.reader == nil || ip == nil {
		return ""
	}
	rec, err := g.reader.Country(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

// Close releases the database file.
func (g *Geo) Close() error {
	if g == nil || g.reader == nil {
		return nil
	}
	return g.reader.Close()
}

/*──────────────────────────── user agent ───────────────────────────────────*/

// Agent is the small slice of the User-Agent the log keeps.
type Agent struct {
	Browser string
	Device  string
	IsBot   bool
}

// ParseAgent classifies a raw User-Agent header.
func ParseAgent(raw string) Agent {
	u := uasurfer.Parse(raw)
	return Agent{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Device:  deviceName(u.DeviceType),
		IsBot:   u.IsBot(),
	}
}

func deviceName(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

/*──────────────────────────── middleware ───────────────────────────────────*/

// Middleware logs every request through log.  geo may be nil.
func Middleware(log *zap.Logger, geo *Geo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ip := ClientIP(r)
			agent := ParseAgent(r.UserAgent())
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("host", r.Host),
				zap.String("path", r.URL.Path),
				zap.String("raw_query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("browser", agent.Browser),
				zap.String("device", agent.Device),
				zap.Bool("bot", agent.IsBot),
				zap.Stringer("ip", ip),
				zap.String("country", geo.Country(ip)),
			}
			if loc := ww.Header().Get("Location"); loc != "" {
				fields = append(fields, zap.String("location", loc))
			}
			if info, ok := requestinfo.FromHeader(ww.Header()); ok {
				fields = append(fields,
					zap.String("language", info.Language),
					zap.String("domain", info.Domain))
			}
			log.Info("request", fields...)
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// ClientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func ClientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

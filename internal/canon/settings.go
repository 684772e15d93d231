package canon

import "strings"

// Settings is the engine's static configuration.  It is copied at
// construction, so callers may reuse or mutate their slices afterwards.
type Settings struct {
	// DefaultLanguage is implicit and never appears as a path prefix.
	DefaultLanguage string
	// Supported lists every locale code, DefaultLanguage included.
	Supported []string
	// ReservedPrefixes are first path segments exempt from enrichment.
	ReservedPrefixes []string
}

// DefaultSettings mirrors the production deployment.
func DefaultSettings() Settings {
	return Settings{
		DefaultLanguage:  "en",
		Supported:        []string{"en", "es", "fr", "de", "ar", "he", "ru"},
		ReservedPrefixes: []string{"config", "api", "auth", "my-esims", "data-usage", "usage"},
	}
}

type settings struct {
	defaultLanguage string
	supported       map[string]struct{}
	prefixLanguages map[string]struct{} // supported minus default
	reserved        map[string]struct{}
}

func compile(s Settings) settings {
	c := settings{
		defaultLanguage: s.DefaultLanguage,
		supported:       make(map[string]struct{}, len(s.Supported)),
		prefixLanguages: make(map[string]struct{}, len(s.Supported)),
		reserved:        make(map[string]struct{}, len(s.ReservedPrefixes)),
	}
	if c.defaultLanguage == "" {
		c.defaultLanguage = "en"
	}
	for _, code := range s.Supported {
		c.supported[code] = struct{}{}
		if code != c.defaultLanguage {
			c.prefixLanguages[code] = struct{}{}
		}
	}
	for _, p := range s.ReservedPrefixes {
		c.reserved[strings.Trim(p, "/")] = struct{}{}
	}
	return c
}

// pathLanguage returns the explicit locale prefix of path or "".
func (s *settings) pathLanguage(path string) string {
	seg := firstSegment(path)
	if _, ok := s.prefixLanguages[seg]; ok {
		return seg
	}
	return ""
}

func (s *settings) isReserved(path string) bool {
	_, ok := s.reserved[firstSegment(path)]
	return ok
}

func (s *settings) isSupported(code string) bool {
	_, ok := s.supported[code]
	return ok
}

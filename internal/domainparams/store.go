// internal/domainparams/store.go
//
// Tenant defaults read from the control-plane database.
//
// Context
// -------
// The edge resolves language, currency, and theme per host through the
// domain params endpoint.  This store answers that endpoint from four
// tables:
//
//	domain_appearance        (domain, theme, default_language, default_currency)
//	brand                    (slug, default_language, theme_mode, is_active)
//	store_payment_config     (store_id, default_currency, is_active)
//	domain_default_language  (domain, default_language)
//
// Resolution order
// ----------------
//  1. A `domain_appearance` row overrides everything it sets.
//  2. With an active brand, the brand supplies language and theme, and the
//     brand's payment config supplies currency.
//  3. Without one, `domain_default_language` supplies language and the
//     fallback store's payment config supplies currency.
//  4. Anything still unset takes the domainconfig defaults.
//
// Notes
// -----
//   - Concurrent lookups for the same domain share one set of queries via
//     singleflight.  Nothing is kept after the call returns.
//   - Missing rows are not errors.  Only driver failures are returned.
//   - Oxford commas, two spaces after periods.
package domainparams

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/localegate/internal/domainconfig"
)

// LookupTimeout bounds one shared lookup.  The shared call does not follow
// any single caller's cancellation, so a client that hangs up does not fail
// the other callers waiting on the same domain.
const LookupTimeout = 5 * time.Second

// Store is safe for concurrent use.
type Store struct {
	db        *sqlx.DB
	brandSlug string
	storeID   string
	sfg       singleflight.Group
}

// NewStore binds db.  brandSlug selects the active brand; storeID is the
// payment config used when no brand is active.
func NewStore(db *sqlx.DB, brandSlug, storeID string) *Store {
	return &Store{db: db, brandSlug: brandSlug, storeID: storeID}
}

type appearanceRow struct {
	Theme    sql.NullString `db:"theme"`
	Language sql.NullString `db:"default_language"`
	Currency sql.NullString `db:"default_currency"`
}

type brandRow struct {
	Slug      string         `db:"slug"`
	Language  sql.NullString `db:"default_language"`
	ThemeMode sql.NullString `db:"theme_mode"`
}

// Lookup returns normalized defaults for a normalized domain.
func (s *Store) Lookup(ctx context.Context, domain string) (domainconfig.Config, error) {
	v, err, _ := s.sfg.Do(domain, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LookupTimeout)
		defer cancel()
		return s.lookup(ctx, domain)
	})
	if err != nil {
		return domainconfig.Config{}, err
	}
	return v.(domainconfig.Config), nil
}

func (s *Store) lookup(ctx context.Context, domain string) (domainconfig.Config, error) {
	var cfg domainconfig.Config

	app, err := s.appearance(ctx, domain)
	if err != nil {
		return cfg, err
	}
	if app != nil {
		if t := app.Theme.String; t == domainconfig.ThemeDark || t == domainconfig.ThemeLight {
			cfg.Theme = t
		}
		cfg.Language = app.Language.String
		cfg.Currency = app.Currency.String
	}

	b, err := s.brand(ctx)
	if err != nil {
		return cfg, err
	}

	storeID := s.storeID
	if b != nil {
		storeID = b.Slug
		if cfg.Language == "" {
			cfg.Language = b.Language.String
		}
		if cfg.Theme == "" && b.ThemeMode.String == domainconfig.ThemeDark {
			cfg.Theme = domainconfig.ThemeDark
		}
	} else if cfg.Language == "" {
		if cfg.Language, err = s.domainLanguage(ctx, domain); err != nil {
			return cfg, err
		}
	}

	if cfg.Currency == "" {
		if cfg.Currency, err = s.storeCurrency(ctx, storeID); err != nil {
			return cfg, err
		}
	}
	return domainconfig.Normalize(cfg), nil
}

func (s *Store) appearance(ctx context.Context, domain string) (*appearanceRow, error) {
	if domain == "" {
		return nil, nil
	}
	const q = `
        SELECT theme, default_language, default_currency
        FROM   domain_appearance
        WHERE  domain = ?
        LIMIT  1`
	var row appearanceRow
	if err := s.db.GetContext(ctx, &row, q, domain); err != nil {
		return nil, noRows(err)
	}
	return &row, nil
}

func (s *Store) brand(ctx context.Context) (*brandRow, error) {
	if s.brandSlug == "" {
		return nil, nil
	}
	const q = `
        SELECT slug, default_language, theme_mode
        FROM   brand
        WHERE  slug = ?
          AND  is_active = TRUE
        LIMIT  1`
	var row brandRow
	if err := s.db.GetContext(ctx, &row, q, s.brandSlug); err != nil {
		return nil, noRows(err)
	}
	return &row, nil
}

func (s *Store) domainLanguage(ctx context.Context, domain string) (string, error) {
	if domain == "" {
		return "", nil
	}
	const q = `
        SELECT default_language
        FROM   domain_default_language
        WHERE  domain = ?
        LIMIT  1`
	var lang sql.NullString
	if err := s.db.GetContext(ctx, &lang, q, domain); err != nil {
		return "", noRows(err)
	}
	return lang.String, nil
}

func (s *Store) storeCurrency(ctx context.Context, storeID string) (string, error) {
	if storeID == "" {
		return "", nil
	}
	const q = `
        SELECT default_currency
        FROM   store_payment_config
        WHERE  store_id = ?
          AND  is_active = TRUE
        LIMIT  1`
	var cur sql.NullString
	if err := s.db.GetContext(ctx, &cur, q, storeID); err != nil {
		return "", noRows(err)
	}
	return cur.String, nil
}

// noRows maps sql.ErrNoRows to nil so callers treat a missing row as
// "not configured".
func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

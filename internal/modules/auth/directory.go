package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"careboard/internal/cache"
	"careboard/internal/domain"

	"github.com/sirupsen/logrus"
)

const rosterCacheKey = "care:rvp_roster"

// Directory answers RVP membership questions. Emails are compared trimmed and
// case-insensitive. When a cache is configured the roster is kept there for
// ttl; cache failures fall back to the database.
type Directory struct {
	repo  RVPRepository
	cache cache.Client
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewDirectory(repo RVPRepository, c cache.Client, ttl time.Duration, log logrus.FieldLogger) *Directory {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Directory{repo: repo, cache: c, ttl: ttl, log: log}
}

// NormalizeEmail trims and lower-cases an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) roster(ctx context.Context) ([]domain.RVP, error) {
	if d.cache != nil {
		raw, err := d.cache.Get(ctx, rosterCacheKey)
		switch {
		case err == nil:
			var rvps []domain.RVP
			if jerr := json.Unmarshal([]byte(raw), &rvps); jerr == nil {
				return rvps, nil
			}
			d.log.WithField("key", rosterCacheKey).Warn("discarding malformed rvp roster cache entry")
		case !errors.Is(err, cache.ErrMiss):
			d.log.WithError(err).Warn("rvp roster cache read failed")
		}
	}

	rvps, err := d.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectory, err)
	}

	if d.cache != nil {
		if raw, jerr := json.Marshal(rvps); jerr == nil {
			if serr := d.cache.Set(ctx, rosterCacheKey, string(raw), d.ttl); serr != nil {
				d.log.WithError(serr).Warn("rvp roster cache write failed")
			}
		}
	}
	return rvps, nil
}

// IsRVP reports whether email belongs to a regional vice president.
func (d *Directory) IsRVP(ctx context.Context, email string) (bool, error) {
	want := NormalizeEmail(email)
	if want == "" {
		return false, nil
	}
	rvps, err := d.roster(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range rvps {
		if NormalizeEmail(r.Email) == want {
			return true, nil
		}
	}
	return false, nil
}

// Emails lists every RVP address in roster order.
func (d *Directory) Emails(ctx context.Context) ([]string, error) {
	rvps, err := d.roster(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rvps))
	for _, r := range rvps {
		if e := strings.TrimSpace(r.Email); e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// ForRegion lists the RVPs assigned to region, or every RVP when none is.
func (d *Directory) ForRegion(ctx context.Context, region string) ([]string, error) {
	rvps, err := d.roster(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range rvps {
		if region != "" && strings.EqualFold(strings.TrimSpace(r.Region), strings.TrimSpace(region)) {
			out = append(out, strings.TrimSpace(r.Email))
		}
	}
	if len(out) > 0 {
		return out, nil
	}
	return d.Emails(ctx)
}

// Invalidate drops the cached roster.
func (d *Directory) Invalidate(ctx context.Context) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Delete(ctx, rosterCacheKey)
}

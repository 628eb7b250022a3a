package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

const activityKey = "dashboard:active_companies"

// Backend is the slice of the upstream client the dashboard needs.
type Backend interface {
	DashboardResumen(ctx context.Context, token string, query upstream.ResumenQuery) (upstream.Resumen, error)
}

// Service fetches and caches the aggregated dashboard metrics.
type Service struct {
	backend Backend
	cache   *Cache
	redis   *redis.Client
}

// NewService constructs a Service. The redis client may be nil in tests;
// activity tracking is skipped then.
func NewService(backend Backend, cache *Cache, client *redis.Client) *Service {
	return &Service{backend: backend, cache: cache, redis: client}
}

// Resumen returns the metrics for the identity's company over the given
// range, serving from cache when possible. Ranges default to the current
// month upstream when empty.
func (s *Service) Resumen(ctx context.Context, token string, identity shared.Identity, desde, hasta string) (upstream.Resumen, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "resumen",
		strconv.FormatInt(identity.CompanyID, 10), desde, hasta)
	if err != nil {
		return upstream.Resumen{}, fmt.Errorf("dashboard: cache key: %w", err)
	}

	var resumen upstream.Resumen
	err = s.cache.FetchJSON(ctx, key, &resumen, func(ctx context.Context) (any, error) {
		return s.backend.DashboardResumen(ctx, token, upstream.ResumenQuery{Desde: desde, Hasta: hasta})
	})
	if err != nil {
		return upstream.Resumen{}, err
	}
	s.touchActivity(ctx, identity.CompanyID)
	return resumen, nil
}

// Refresh discards every cached resumen so the next request hits the
// backend again.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// touchActivity records the company in the recently-active set consumed
// by the warmup job. Failures are ignored; activity tracking is advisory.
func (s *Service) touchActivity(ctx context.Context, companyID int64) {
	if s.redis == nil || companyID <= 0 {
		return
	}
	_ = s.redis.ZAdd(ctx, activityKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: strconv.FormatInt(companyID, 10),
	}).Err()
}

// ActiveCompanies lists the companies seen on the dashboard in the last
// `window`. The warmup job pre-computes their current-month resumen.
func (s *Service) ActiveCompanies(ctx context.Context, window time.Duration) ([]int64, error) {
	if s.redis == nil {
		return nil, nil
	}
	min := strconv.FormatInt(time.Now().Add(-window).Unix(), 10)
	members, err := s.redis.ZRangeByScore(ctx, activityKey, &redis.ZRangeBy{Min: min, Max: "+inf"}).Result()
	if err != nil {
		return nil, fmt.Errorf("dashboard: active companies: %w", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// WarmCompany refreshes the cached current-month resumen for one company
// using the service token.
func (s *Service) WarmCompany(ctx context.Context, serviceToken string, companyID int64, now time.Time) error {
	month := shared.CurrentMonthRange(now)
	desde, hasta := shared.ISODate(month.Start), shared.ISODate(month.End)

	resumen, err := s.backend.DashboardResumen(ctx, serviceToken, upstream.ResumenQuery{
		Desde: desde, Hasta: hasta, ClienteID: companyID,
	})
	if err != nil {
		return fmt.Errorf("dashboard: warm company %d: %w", companyID, err)
	}
	key, err := s.cache.BuildKey(ctx, "dashboard", "resumen",
		strconv.FormatInt(companyID, 10), desde, hasta)
	if err != nil {
		return err
	}
	return s.cache.Store(ctx, key, resumen)
}

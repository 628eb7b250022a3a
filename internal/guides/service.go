package guides

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

// Backend is the slice of the upstream client the guide listing needs.
type Backend interface {
	Guides(ctx context.Context, token string, query upstream.GuideQuery) (upstream.GuidesPage, error)
	GuideFilterOptions(ctx context.Context, token string) (upstream.GuideOptions, error)
}

// Service fetches, filters and aggregates guide listings.
type Service struct {
	backend Backend
}

// NewService constructs a Service.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Aggregates summarises the visible guide rows.
type Aggregates struct {
	Count          int     `json:"cantidad_guias"`
	LitersPicked   float64 `json:"total_litros"`
	TotalBilled    float64 `json:"total_facturado"`
	ActiveBranches int     `json:"sucursales_activas"`
}

// Listing is the complete payload behind the guide view.
type Listing struct {
	Guides     []upstream.Guide      `json:"guias"`
	Aggregates Aggregates            `json:"resumen"`
	Options    upstream.GuideOptions `json:"opciones"`
	Pagination shared.Pagination     `json:"paginacion"`
}

// List fetches guides and filter options in parallel, applies the local
// filter pass and computes aggregates over the surviving rows.
func (s *Service) List(ctx context.Context, token string, filter Filter) (Listing, error) {
	var (
		page    upstream.GuidesPage
		options upstream.GuideOptions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.backend.Guides(gctx, token, filter.query())
		return err
	})
	g.Go(func() error {
		var err error
		options, err = s.backend.GuideFilterOptions(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return Listing{}, fmt.Errorf("guides: list: %w", err)
	}

	visible := make([]upstream.Guide, 0, len(page.Guides))
	for _, guide := range page.Guides {
		if filter.Matches(guide) {
			visible = append(visible, guide)
		}
	}
	return Listing{
		Guides:     visible,
		Aggregates: Summarize(visible),
		Options:    options,
		Pagination: shared.NewPagination(page.Page, filter.PerPage, page.Total),
	}, nil
}

// Summarize computes the header aggregates for a set of guide rows.
func Summarize(rows []upstream.Guide) Aggregates {
	agg := Aggregates{Count: len(rows)}
	branches := make(map[string]struct{})
	for _, g := range rows {
		agg.LitersPicked += g.LitersPicked.Float()
		agg.TotalBilled += g.Total.Float()
		if g.Branch != "" {
			branches[g.Branch] = struct{}{}
		}
	}
	agg.ActiveBranches = len(branches)
	return agg
}

func guideNumber(g upstream.Guide) string {
	return strconv.FormatInt(g.Number, 10)
}

package invoices

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/logisamb/portal/internal/upstream"
)

// AllBranches is the sentinel meaning "do not filter by branch".
const AllBranches = "todas"

// AllStatuses is the sentinel meaning "do not filter by aging status".
const AllStatuses = "todos"

// Filter scopes the unpaid-invoice listing.
type Filter struct {
	Branch     string
	MoraStatus string
	Number     string
}

// ParseFilter resolves request parameters into a Filter.
func ParseFilter(params url.Values) Filter {
	f := Filter{
		Branch:     strings.TrimSpace(params.Get("sucursal")),
		MoraStatus: strings.TrimSpace(params.Get("estadoMora")),
		Number:     strings.TrimSpace(params.Get("numeroFactura")),
	}
	if strings.EqualFold(f.Branch, AllBranches) {
		f.Branch = ""
	}
	if strings.EqualFold(f.MoraStatus, AllStatuses) {
		f.MoraStatus = ""
	}
	return f
}

func (f Filter) query() upstream.InvoiceQuery {
	return upstream.InvoiceQuery{
		Branch:     f.Branch,
		MoraStatus: f.MoraStatus,
		Number:     f.Number,
	}
}

// Matches reports whether an invoice satisfies the filter locally; the
// invoice-number fragment matches anywhere in the document number,
// ignoring case since numbers may carry alphabetic prefixes.
func (f Filter) Matches(inv upstream.Invoice) bool {
	if f.Branch != "" && inv.Branch != f.Branch {
		return false
	}
	if f.MoraStatus != "" && !strings.EqualFold(inv.MoraStatus, f.MoraStatus) {
		return false
	}
	if f.Number != "" && !strings.Contains(strings.ToLower(inv.Number), strings.ToLower(f.Number)) {
		return false
	}
	return true
}

// Backend is the slice of the upstream client the invoice listing needs.
type Backend interface {
	Invoices(ctx context.Context, token string, query upstream.InvoiceQuery) (upstream.InvoicesPage, error)
	InvoiceBranches(ctx context.Context, token string) ([]string, error)
}

// Service fetches, filters and aggregates unpaid invoices.
type Service struct {
	backend Backend
}

// NewService constructs a Service.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Aggregates summarises the visible invoice rows.
type Aggregates struct {
	Count          int     `json:"cantidad_facturas"`
	TotalAmount    float64 `json:"monto_total"`
	CriticalCount  int     `json:"criticas"`
	HighCount      int     `json:"altas"`
	AvgDaysOverdue int     `json:"promedio_dias_mora"`
}

// Row is an invoice annotated with its derived aging bucket.
type Row struct {
	upstream.Invoice
	Bucket string `json:"bucket"`
}

// Listing is the complete payload behind the invoice view.
type Listing struct {
	Invoices   []Row      `json:"facturas"`
	Aggregates Aggregates `json:"resumen"`
	Branches   []string   `json:"sucursales"`
}

// List fetches invoices and branch options in parallel, applies the local
// filter pass and computes aggregates over the surviving rows.
func (s *Service) List(ctx context.Context, token string, filter Filter) (Listing, error) {
	var (
		page     upstream.InvoicesPage
		branches []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.backend.Invoices(gctx, token, filter.query())
		return err
	})
	g.Go(func() error {
		var err error
		branches, err = s.backend.InvoiceBranches(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return Listing{}, fmt.Errorf("invoices: list: %w", err)
	}

	visible := make([]Row, 0, len(page.Invoices))
	for _, inv := range page.Invoices {
		if filter.Matches(inv) {
			visible = append(visible, Row{Invoice: inv, Bucket: BucketFor(inv.DaysOverdue)})
		}
	}
	return Listing{
		Invoices:   visible,
		Aggregates: Summarize(visible),
		Branches:   branches,
	}, nil
}

// Summarize computes the header aggregates for a set of invoice rows. The
// average is rounded to the nearest whole day and is zero for an empty set.
func Summarize(rows []Row) Aggregates {
	agg := Aggregates{Count: len(rows)}
	if len(rows) == 0 {
		return agg
	}
	totalDays := 0
	for _, r := range rows {
		agg.TotalAmount += r.Amount.Float()
		totalDays += r.DaysOverdue
		switch BucketFor(r.DaysOverdue) {
		case BucketCritical:
			agg.CriticalCount++
		case BucketHigh:
			agg.HighCount++
		}
	}
	agg.AvgDaysOverdue = int(math.Round(float64(totalDays) / float64(len(rows))))
	return agg
}

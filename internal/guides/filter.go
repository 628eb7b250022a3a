// Package guides serves the waste-pickup guide listing, its filter
// options and its exports.
package guides

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

// Sentinel option values meaning "do not filter on this dimension".
const (
	AllBranches    = "todas"
	AllServices    = "todos"
	AllFrequencies = "todas"
)

// defaultPageSize matches the backend's own listing default. Exports
// ask for one oversized page so the file covers the whole range.
const (
	defaultPageSize = 100
	exportPageSize  = 10000
)

// Filter is a fully resolved guide query. Desde and Hasta are always set;
// the categorical fields are empty when the caller picked the sentinel.
type Filter struct {
	Desde     time.Time
	Hasta     time.Time
	Branch    string
	Service   string
	Frequency string
	Number    string
	Page      int
	PerPage   int
}

// ParseFilter resolves request parameters into a Filter. Missing dates
// default to the current month, so a fresh dashboard always shows the
// month in progress.
func ParseFilter(params url.Values, now time.Time) (Filter, error) {
	month := shared.CurrentMonthRange(now)
	f := Filter{
		Desde:     month.Start,
		Hasta:     month.End,
		Branch:    normalizeOption(params.Get("sucursal"), AllBranches),
		Service:   normalizeOption(params.Get("servicio"), AllServices),
		Frequency: normalizeOption(params.Get("frecuencia"), AllFrequencies),
		Number:    strings.TrimSpace(params.Get("guia")),
		Page:      1,
		PerPage:   defaultPageSize,
	}
	if raw := params.Get("pagina"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err == nil && page > 0 {
			f.Page = page
		}
	}

	if raw := params.Get("desde"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Filter{}, err
		}
		f.Desde = parsed
	}
	if raw := params.Get("hasta"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Filter{}, err
		}
		f.Hasta = parsed
	}
	return f, nil
}

func normalizeOption(raw, sentinel string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, sentinel) {
		return ""
	}
	return raw
}

func (f Filter) query() upstream.GuideQuery {
	return upstream.GuideQuery{
		Page:      f.Page,
		Limit:     f.PerPage,
		Desde:     shared.ISODate(f.Desde),
		Hasta:     shared.ISODate(f.Hasta),
		Branch:    f.Branch,
		Service:   f.Service,
		Frequency: f.Frequency,
		Number:    f.Number,
	}
}

// Matches reports whether a guide satisfies the filter. The backend is
// expected to pre-filter, but rows are checked again locally; some
// deployments ignore the numeric guide parameter.
func (f Filter) Matches(g upstream.Guide) bool {
	if !shared.InRange(shared.StartOfDay(g.Date.Time), f.Desde, f.Hasta) {
		return false
	}
	if f.Branch != "" && g.Branch != f.Branch {
		return false
	}
	if f.Service != "" && g.Service != f.Service {
		return false
	}
	if f.Frequency != "" && g.Frequency != f.Frequency {
		return false
	}
	if f.Number != "" && !strings.Contains(guideNumber(g), f.Number) {
		return false
	}
	return true
}

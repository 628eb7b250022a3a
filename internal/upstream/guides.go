package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Guide is a waste-pickup service record.
type Guide struct {
	ID            int64  `json:"id"`
	Number        int64  `json:"guia"`
	Date          Date   `json:"fecha"`
	Branch        string `json:"sucursal"`
	Service       string `json:"servicio"`
	Frequency     string `json:"frecuencia"`
	LitersLimit   Amount `json:"lts_limite"`
	LitersPicked  Amount `json:"lts_retirados"`
	ServiceValue  Amount `json:"valor_servicio"`
	ExtraLtValue  Amount `json:"valor_lt_adic"`
	VehiclePlate  string `json:"patente"`
	Total         Amount `json:"total"`
}

// GuidesPage is one page of guides.
type GuidesPage struct {
	Page   int     `json:"page"`
	Total  int     `json:"total"`
	Guides []Guide `json:"guias"`
}

// GuideQuery scopes a guide listing. Zero values are omitted from the wire
// request; the caller drops "all" sentinels before building a query.
type GuideQuery struct {
	Page      int
	Limit     int
	Desde     string
	Hasta     string
	Branch    string
	Service   string
	Frequency string
	Number    string
}

func (q GuideQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Desde != "" {
		values.Set("desde", q.Desde)
	}
	if q.Hasta != "" {
		values.Set("hasta", q.Hasta)
	}
	if q.Branch != "" {
		values.Set("sucursal", q.Branch)
	}
	if q.Service != "" {
		values.Set("servicio", q.Service)
	}
	if q.Frequency != "" {
		values.Set("frecuencia", q.Frequency)
	}
	if q.Number != "" {
		values.Set("guia", q.Number)
	}
	return values
}

// Guides fetches one page of guides under the given filter.
func (c *Client) Guides(ctx context.Context, token string, query GuideQuery) (GuidesPage, error) {
	var page struct {
		Page   int      `json:"page"`
		Total  int      `json:"total"`
		Guides *[]Guide `json:"guias"`
	}
	if err := c.do(ctx, "list guides", http.MethodGet, "/guias", token, query.values(), nil, &page); err != nil {
		return GuidesPage{}, err
	}
	if page.Guides == nil {
		return GuidesPage{}, shapeErr("list guides", "guias array missing")
	}
	return GuidesPage{Page: page.Page, Total: page.Total, Guides: *page.Guides}, nil
}

// GuideOptions are the distinct values offered by the guide filters.
type GuideOptions struct {
	Branches    []string `json:"sucursales"`
	Services    []string `json:"servicios"`
	Frequencies []string `json:"frecuencias"`
}

// GuideFilterOptions fetches the distinct filter-option lists.
func (c *Client) GuideFilterOptions(ctx context.Context, token string) (GuideOptions, error) {
	var options GuideOptions
	if err := c.do(ctx, "guide options", http.MethodGet, "/guias/opciones", token, nil, nil, &options); err != nil {
		return GuideOptions{}, err
	}
	return options, nil
}

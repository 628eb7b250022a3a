package upstream

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Invoice is an unpaid billing record with its aging state.
type Invoice struct {
	ID          int64  `json:"id"`
	Date        Date   `json:"fecha"`
	Branch      string `json:"sucursal"`
	DaysOverdue int    `json:"dias_mora"`
	Number      string `json:"nro_factura"`
	Amount      Amount `json:"monto_factura"`
	MoraStatus  string `json:"estado_mora"`
}

// InvoicesPage is one page of invoices.
type InvoicesPage struct {
	Page     int       `json:"page"`
	Total    int       `json:"total"`
	Invoices []Invoice `json:"facturas"`
}

// InvoiceQuery scopes an invoice listing; zero values are omitted. The
// unpaid-invoice surface is not date-scoped, rows age out when paid.
type InvoiceQuery struct {
	Branch     string
	MoraStatus string
	Number     string
}

func (q InvoiceQuery) values() url.Values {
	values := url.Values{}
	if q.Branch != "" {
		values.Set("sucursal", q.Branch)
	}
	if q.MoraStatus != "" {
		values.Set("estadoMora", q.MoraStatus)
	}
	if q.Number != "" {
		values.Set("numeroFactura", q.Number)
	}
	return values
}

// Invoices fetches the unpaid invoices under the given filter.
func (c *Client) Invoices(ctx context.Context, token string, query InvoiceQuery) (InvoicesPage, error) {
	var page struct {
		Page     int        `json:"page"`
		Total    int        `json:"total"`
		Invoices *[]Invoice `json:"facturas"`
	}
	if err := c.do(ctx, "list invoices", http.MethodGet, "/facturas", token, query.values(), nil, &page); err != nil {
		return InvoicesPage{}, err
	}
	if page.Invoices == nil {
		return InvoicesPage{}, shapeErr("list invoices", "facturas array missing")
	}
	return InvoicesPage{Page: page.Page, Total: page.Total, Invoices: *page.Invoices}, nil
}

// InvoiceBranches fetches the distinct branch names carrying unpaid invoices.
// Blank entries are discarded and the list is sorted for stable filter menus.
func (c *Client) InvoiceBranches(ctx context.Context, token string) ([]string, error) {
	var raw []string
	if err := c.do(ctx, "invoice branches", http.MethodGet, "/facturas/sucursales", token, nil, nil, &raw); err != nil {
		return nil, err
	}
	branches := make([]string, 0, len(raw))
	for _, branch := range raw {
		if strings.TrimSpace(branch) == "" {
			continue
		}
		branches = append(branches, branch)
	}
	sort.Strings(branches)
	return branches, nil
}

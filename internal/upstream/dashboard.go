package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Resumen is the pre-aggregated dashboard metrics object for a date range.
// All aggregation happens on the backend; the portal only caches and renders.
type Resumen struct {
	CantidadGuias         int64  `json:"cantidad_guias"`
	CantidadFacturas      int64  `json:"cantidad_facturas"`
	MontoGuias            Amount `json:"monto_guias"`
	MontoFacturas         Amount `json:"monto_facturas"`
	CantidadSucursales    int64  `json:"cantidad_sucursales"`
	PromedioMontoGuias    Amount `json:"promedio_monto_guias"`
	PromedioMontoFacturas Amount `json:"promedio_monto_facturas"`
}

type resumenEnvelope struct {
	Resumen *Resumen `json:"resumen"`
}

// ResumenQuery scopes a dashboard metrics request. ClienteID is only
// honoured for service tokens; user tokens are already company scoped.
type ResumenQuery struct {
	Desde     string
	Hasta     string
	ClienteID int64
}

func (q ResumenQuery) values() url.Values {
	query := url.Values{}
	if q.Desde != "" {
		query.Set("desde", q.Desde)
	}
	if q.Hasta != "" {
		query.Set("hasta", q.Hasta)
	}
	if q.ClienteID > 0 {
		query.Set("cliente_id", strconv.FormatInt(q.ClienteID, 10))
	}
	return query
}

// DashboardResumen fetches the aggregated metrics between desde and hasta
// (inclusive, YYYY-MM-DD).
func (c *Client) DashboardResumen(ctx context.Context, token string, query ResumenQuery) (Resumen, error) {
	var envelope resumenEnvelope
	if err := c.do(ctx, "dashboard resumen", http.MethodGet, "/dashboard/resumen", token, query.values(), nil, &envelope); err != nil {
		return Resumen{}, err
	}
	if envelope.Resumen == nil {
		return Resumen{}, shapeErr("dashboard resumen", "resumen object missing")
	}
	return *envelope.Resumen, nil
}

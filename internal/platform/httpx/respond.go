// Package httpx provides JSON response helpers shared by all HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

// JSON writes v as an application/json body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("httpx: encode response", "error", err)
	}
}

// ProblemDetail is an RFC 7807 problem document.
type ProblemDetail struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Problem writes an RFC 7807 problem document.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	writeProblem(w, ProblemDetail{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func writeProblem(w http.ResponseWriter, p ProblemDetail) {
	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("httpx: encode problem", "error", err)
	}
}

// ValidationProblem writes a 422 problem document with one message per
// invalid field, so the client can surface errors next to each input.
func ValidationProblem(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}
	writeProblem(w, ProblemDetail{
		Type:   "about:blank",
		Title:  "Datos inválidos",
		Status: http.StatusUnprocessableEntity,
		Fields: fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "este campo es obligatorio"
	case "email":
		return "debe ser un correo válido"
	case "min":
		return "demasiado corto"
	case "oneof":
		return "valor fuera de rango"
	default:
		return "valor inválido"
	}
}

// RespondError maps portal errors onto HTTP problem documents. Upstream
// fetch failures keep their status and carry a retryable hint; everything
// else falls through to a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	var fe *upstream.FetchError
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		Problem(w, http.StatusUnauthorized, "No autenticado", "Inicia sesión para continuar.")
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Acceso denegado", "No tienes permisos para esta operación.")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "No encontrado", "")
	case errors.Is(err, shared.ErrNothingToExport):
		Problem(w, http.StatusConflict, "Sin datos", "No hay datos para exportar.")
	case errors.As(err, &fe):
		respondFetchError(w, fe)
	default:
		slog.Error("httpx: unhandled error", "error", err)
		Problem(w, http.StatusInternalServerError, "Error interno", "")
	}
}

func respondFetchError(w http.ResponseWriter, fe *upstream.FetchError) {
	if fe.Unauthorized() {
		Problem(w, http.StatusUnauthorized, "Sesión expirada", "Vuelve a iniciar sesión.")
		return
	}
	slog.Warn("httpx: upstream fetch failed", "op", fe.Op, "status", fe.Status, "error", fe.Err)
	writeProblem(w, ProblemDetail{
		Type:      "about:blank",
		Title:     "Servicio no disponible",
		Status:    http.StatusBadGateway,
		Detail:    "No fue posible obtener los datos. Intenta nuevamente.",
		Retryable: fe.Retryable(),
	})
}

// DecodeJSON reads a JSON request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/logisamb/portal/internal/dashboard"
	jobmetrics "github.com/logisamb/portal/internal/jobs"
	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

type stubBackend struct {
	calls   int
	queries []upstream.ResumenQuery
}

func (s *stubBackend) DashboardResumen(_ context.Context, _ string, q upstream.ResumenQuery) (upstream.Resumen, error) {
	s.calls++
	s.queries = append(s.queries, q)
	return upstream.Resumen{CantidadGuias: 9}, nil
}

func TestDashboardWarmupHandle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := &stubBackend{}
	svc := dashboard.NewService(backend, dashboard.NewCache(client, time.Minute), client)

	// Two companies visited the dashboard, which records their activity.
	if _, err := svc.Resumen(context.Background(), "tok", shared.Identity{CompanyID: 21}, "2025-07-01", "2025-07-31"); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	if _, err := svc.Resumen(context.Background(), "tok", shared.Identity{CompanyID: 34}, "2025-07-01", "2025-07-31"); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	backend.calls = 0
	backend.queries = nil

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	job := NewDashboardWarmupJob(svc, "svc-token", logger, metrics)

	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{WindowMinutes: 60})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if backend.calls != 2 {
		t.Fatalf("backend calls = %d, want one per active company", backend.calls)
	}
	for _, q := range backend.queries {
		if q.ClienteID != 21 && q.ClienteID != 34 {
			t.Fatalf("unexpected cliente_id %d", q.ClienteID)
		}
	}
}

func TestDashboardWarmupSkipsWithoutToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := &stubBackend{}
	svc := dashboard.NewService(backend, dashboard.NewCache(client, time.Minute), client)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := NewDashboardWarmupJob(svc, "", logger, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, _ := NewDashboardWarmupTask(DashboardWarmupPayload{})
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("backend calls = %d, want 0", backend.calls)
	}
}

func TestDashboardWarmupMalformedPayload(t *testing.T) {
	job := NewDashboardWarmupJob(nil, "tok", nil, nil)
	if err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte("{"))); err == nil {
		t.Fatal("expected error for unconfigured handler")
	}
}

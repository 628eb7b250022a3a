package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/logisamb/portal/internal/dashboard"
	jobmetrics "github.com/logisamb/portal/internal/jobs"
)

const defaultWarmupWindow = 6 * time.Hour

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DashboardWarmupJob pre-populates the dashboard cache for companies whose
// users visited the portal recently, so their first morning request is a
// cache hit instead of an upstream round trip.
type DashboardWarmupJob struct {
	Dashboard    *dashboard.Service
	ServiceToken string
	Logger       *slog.Logger
	Metrics      *jobmetrics.Metrics
	clock        func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.Service, serviceToken string, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard:    svc,
		ServiceToken: serviceToken,
		Logger:       logger,
		Metrics:      metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	if j.ServiceToken == "" {
		j.logger().Info("dashboard warmup skipped, no service token configured")
		return nil
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	window := defaultWarmupWindow
	if payload.WindowMinutes > 0 {
		window = time.Duration(payload.WindowMinutes) * time.Minute
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Duration("window", window))
	logger.Info("starting dashboard warmup")

	companies, err := j.Dashboard.ActiveCompanies(ctx, window)
	if err != nil {
		resultErr = err
		logger.Error("load active companies", slog.Any("error", err))
		return resultErr
	}
	if len(companies) == 0 {
		logger.Info("no active companies to warm")
		return resultErr
	}

	now := j.now()
	warmed := 0
	for _, companyID := range companies {
		if err := j.Dashboard.WarmCompany(ctx, j.ServiceToken, companyID, now); err != nil {
			resultErr = err
			logger.Error("warm company", slog.Int64("company_id", companyID), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}
	j.metricsOrDefault().AddWarmedCompanies(warmed)
	logger.Info("dashboard warmup finished", slog.Int("warmed", warmed))
	return resultErr
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	return j.metricsOrDefault()
}

func (j *DashboardWarmupJob) metricsOrDefault() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// Package jobs hosts the asynq worker and the portal's background tasks.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup refreshes cached dashboard metrics for companies
	// active on the portal recently.
	TaskDashboardWarmup = "dashboard:warmup"
)

// DashboardWarmupPayload tunes one warmup run.
type DashboardWarmupPayload struct {
	// WindowMinutes bounds how far back a company's last dashboard visit
	// may be to still get warmed. Zero means the default window.
	WindowMinutes int `json:"window_minutes"`
}

// NewDashboardWarmupTask constructs an asynq task for a warmup run.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

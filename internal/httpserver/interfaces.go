package httpserver

import (
	"context"
	"time"

	"github.com/skillcoder/kuberoute/internal/infra/appstate"
	"github.com/skillcoder/kuberoute/internal/infra/pinger"
)

// appstater is an internal interface for application state management
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() map[string]*pinger.Statistics
}

// syncTrigger runs one reconciliation pass and returns a short
// human-readable confirmation.
type syncTrigger interface {
	ReconcileCommand(ctx context.Context) (string, error)
}

package app

import (
	"context"
	"os"
	"time"

	"github.com/skillcoder/kuberoute/internal/infra/appstate"
	"github.com/skillcoder/kuberoute/internal/infra/pinger"
	"github.com/skillcoder/kuberoute/internal/infra/shutdown"
)

// appstater defines the interface for application state management
type appstater interface {
	RegisterPinger(pinger pinger.Pinger) error
	GetAllStats() map[string]*pinger.Statistics
	RegisterShutdowner(shutdowner shutdown.Shutdowner) error
	StartPingers(ctx context.Context) error
	Quit() <-chan os.Signal
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	GetStartTime() time.Time
	GetState() appstate.State
	GetUptime() time.Duration
	IsHealthy() bool
	IsReady() bool
	Shutdown(ctx context.Context) error
}

type signalHandler interface {
	HandleSignals(ctx context.Context, cancel func())
	CheckTermination(ctx context.Context, terminationFile string) error
}

// appPinger is what components must expose to be probed.
type appPinger interface {
	Name() string
	Ping(ctx context.Context) error
}

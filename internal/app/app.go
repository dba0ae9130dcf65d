package app

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/skillcoder/kuberoute/internal/adapters/outbound/dnsnull"
	"github.com/skillcoder/kuberoute/internal/adapters/outbound/k8s"
	"github.com/skillcoder/kuberoute/internal/adapters/outbound/route53"
	"github.com/skillcoder/kuberoute/internal/adapters/outbound/s3"
	"github.com/skillcoder/kuberoute/internal/adapters/outbound/skydns"
	"github.com/skillcoder/kuberoute/internal/config"
	"github.com/skillcoder/kuberoute/internal/httpserver"
	"github.com/skillcoder/kuberoute/internal/infra/shutdown"
	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

// terminationFilePath is touched by the pod preStop hook.
const terminationFilePath = "/mnt/signal/terminating"

type App struct {
	logger        *slog.Logger
	appState      appstater
	httpServer    *httpserver.Server
	metricsServer *httpserver.MetricsServer
	shutdowner    signalHandler
}

// New creates a new application instance with all dependencies wired.
// Unknown backend or auth names have already been rejected by config.Load;
// anything failing here is a startup error.
func New(logger *slog.Logger, cfg *config.Config, appState appstater) (*App, error) {
	kubeConfig, err := buildKubeConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	// Create secondary adapters
	repo := k8s.New(logger, clientset)

	dns, err := buildDNSProvider(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("create dns provider: %w", err)
	}

	var reporter reconciler.StatusReporter

	if cfg.ReportingEnabled() {
		reporter, err = s3.New(logger, cfg.StatusS3Region, cfg.StatusS3Bucket, cfg.StatusS3Key)
		if err != nil {
			return nil, fmt.Errorf("create status reporter: %w", err)
		}
	}

	// Create logic service (inject port adapters)
	engine := reconciler.New(
		logger,
		repo,
		dns,
		reporter,
		reconciler.NewSnapshotCache(),
		cfg.Namespaces,
		cfg.LabelKeys,
		cfg.FetchTimeout,
	)

	httpServer := httpserver.New(logger, appState, engine, cfg.HTTPPort)
	metricsServer := httpserver.NewMetricsServer(logger, cfg.MetricsPort)

	for _, component := range []shutdown.Shutdowner{httpServer, metricsServer} {
		if err := appState.RegisterShutdowner(component); err != nil {
			return nil, fmt.Errorf("register shutdowner %s: %w", component.Name(), err)
		}
	}

	for _, p := range []appPinger{httpServer, metricsServer, k8s.NewClusterPinger(clientset)} {
		if err := appState.RegisterPinger(p); err != nil {
			return nil, fmt.Errorf("register pinger %s: %w", p.Name(), err)
		}
	}

	return &App{
		logger:        logger,
		appState:      appState,
		httpServer:    httpServer,
		metricsServer: metricsServer,
		shutdowner:    shutdown.New(logger, appState),
	}, nil
}

// Run starts all components and blocks until a termination signal or
// context cancellation, then shuts everything down in reverse order.
func (a *App) Run(originCtx context.Context) error {
	if err := a.shutdowner.CheckTermination(originCtx, terminationFilePath); err != nil {
		return fmt.Errorf("check termination: %w", err)
	}

	if err := a.appState.SetStarting(originCtx); err != nil {
		return fmt.Errorf("set starting application state: %w", err)
	}

	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go a.shutdowner.HandleSignals(ctx, cancel)

	if err := a.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	if err := a.metricsServer.Start(ctx); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}

	if err := a.appState.StartPingers(ctx); err != nil {
		return fmt.Errorf("start pingers: %w", err)
	}

	select {
	case <-a.httpServer.Ready():
	case <-ctx.Done():
		return fmt.Errorf("context done before http server ready: %w", ctx.Err())
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		return fmt.Errorf("set running application state: %w", err)
	}

	a.logger.InfoContext(ctx, "kuberoute is ready, waiting for reconciliation triggers")

	<-ctx.Done()

	return a.appState.Shutdown(originCtx)
}

// buildKubeConfig selects the configured cluster API auth strategy.
func buildKubeConfig(cfg *config.Config) (*rest.Config, error) {
	switch cfg.Auth {
	case config.AuthInCluster:
		return rest.InClusterConfig()
	case config.AuthToken:
		return &rest.Config{
			Host:        cfg.KubeMaster,
			BearerToken: cfg.KubeToken,
		}, nil
	case config.AuthKubeConfig:
		return clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.Auth)
	}
}

// buildDNSProvider selects the configured DNS backend; one value is held
// for the process lifetime.
func buildDNSProvider(logger *slog.Logger, cfg *config.Config) (reconciler.DNSProvider, error) {
	switch cfg.DNSBackend {
	case config.BackendRoute53:
		return route53.New(logger, cfg.Route53Region)
	case config.BackendSkyDNS:
		return skydns.New(logger, cfg.EtcdEndpoints)
	case config.BackendNull:
		return dnsnull.New(logger), nil
	default:
		return nil, fmt.Errorf("unknown DNS backend %q", cfg.DNSBackend)
	}
}

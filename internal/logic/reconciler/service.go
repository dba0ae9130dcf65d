package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skillcoder/kuberoute/internal/infra/metrics"
)

// Reconciler runs one fetch -> plan -> apply -> report pass per
// ReconcileCommand invocation. It holds no timer; periodicity belongs to
// whoever triggers it. Concurrent invocations are allowed, the snapshot
// cache being the only shared state.
type Reconciler struct {
	logger       *slog.Logger
	repo         Repository
	dns          DNSProvider
	reporter     StatusReporter
	cache        *SnapshotCache
	namespaces   []string
	labelKeys    LabelKeys
	fetchTimeout time.Duration
	now          func() time.Time
}

// New creates a new reconciler. reporter may be nil, which disables
// status reporting without affecting the reconciliation result.
func New(
	logger *slog.Logger,
	repo Repository,
	dns DNSProvider,
	reporter StatusReporter,
	cache *SnapshotCache,
	namespaces []string,
	labelKeys LabelKeys,
	fetchTimeout time.Duration,
) *Reconciler {
	return &Reconciler{
		logger:       logger,
		repo:         repo,
		dns:          dns,
		reporter:     reporter,
		cache:        cache,
		namespaces:   namespaces,
		labelKeys:    labelKeys,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// snapshotData is the raw cluster state observed by one fetch.
type snapshotData struct {
	services []Service
	pods     []Pod
	nodes    []Node
}

// ReconcileCommand runs one reconciliation pass and returns a
// human-readable confirmation. On cluster connectivity loss it reports
// the previous snapshot with available:false, issues no DNS update, and
// returns an error naming the failed stage.
func (r *Reconciler) ReconcileCommand(ctx context.Context) (string, error) {
	logger := r.logger.With("reconciler", "ReconcileCommand")
	start := r.now()

	snap, err := r.fetchSnapshot(ctx)
	if err != nil {
		var target unreachable
		if errors.As(err, &target) {
			logger.WarnContext(ctx, "cluster API unreachable, reporting cached snapshot", "reason", err)
			r.reportFallback(ctx, logger)
			metrics.RecordReconcileCycle(metrics.ResultFallback)

			return "", fmt.Errorf("%w: %w", ErrClusterUnreachable, err)
		}

		metrics.RecordReconcileCycle(metrics.ResultError)

		return "", fmt.Errorf("%w: %w", ErrFetchSnapshot, err)
	}

	plan := PlanRecords(snap.services, snap.pods, snap.nodes, r.labelKeys)

	logger.DebugContext(ctx, "record plan built",
		"domains", len(plan),
		"services", len(snap.services),
		"pods", len(snap.pods),
		"nodes", len(snap.nodes),
	)

	updates, failures := r.applyPlan(ctx, logger, plan, len(snap.nodes))

	// The cache must hold the new snapshot before reporting so a fallback
	// in an immediately following pass sees this pass's view.
	r.cache.Store(&Snapshot{
		Records:    plan,
		Nodes:      snap.nodes,
		ObservedAt: start,
	})

	r.report(ctx, logger, buildReport(plan, snap.nodes, true, r.now()))

	metrics.RecordReconcileCycle(metrics.ResultSuccess)
	metrics.ObserveReconcileDuration(time.Since(start))

	records := 0
	for domain := range plan {
		records += len(plan[domain])
	}

	confirmation := fmt.Sprintf(
		"reconciled %d domains, %d records: %d DNS updates issued, %d failed",
		len(plan), records, updates, failures,
	)

	logger.InfoContext(ctx, "reconciliation pass completed",
		"domains", len(plan),
		"records", records,
		"updates", updates,
		"failures", failures,
		"duration", time.Since(start),
	)

	return confirmation, nil
}

// fetchSnapshot lists services and pods per configured namespace plus the
// node list. Namespace listings run concurrently; they are read-only and
// independent. Each call is bounded by the configured fetch timeout so a
// stalled API server fails the pass instead of hanging it. Results are
// concatenated in namespace-list order, keeping the snapshot order stable
// across passes over identical cluster state.
func (r *Reconciler) fetchSnapshot(ctx context.Context) (*snapshotData, error) {
	var (
		servicesByNS = make([][]Service, len(r.namespaces))
		podsByNS     = make([][]Pod, len(r.namespaces))
		snap         snapshotData
	)

	g, gctx := errgroup.WithContext(ctx)

	for i, namespace := range r.namespaces {
		g.Go(func() error {
			services, err := r.listServices(gctx, namespace)
			if err != nil {
				return fmt.Errorf("list services in %s: %w", namespace, err)
			}

			servicesByNS[i] = services

			return nil
		})

		g.Go(func() error {
			pods, err := r.listPods(gctx, namespace)
			if err != nil {
				return fmt.Errorf("list pods in %s: %w", namespace, err)
			}

			podsByNS[i] = pods

			return nil
		})
	}

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, r.fetchTimeout)
		defer cancel()

		nodes, err := r.repo.ListNodesQuery(fctx)
		if err != nil {
			return fmt.Errorf("list nodes: %w", err)
		}

		snap.nodes = nodes

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range r.namespaces {
		snap.services = append(snap.services, servicesByNS[i]...)
		snap.pods = append(snap.pods, podsByNS[i]...)
	}

	return &snap, nil
}

func (r *Reconciler) listServices(ctx context.Context, namespace string) ([]Service, error) {
	fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	return r.repo.ListServicesQuery(fctx, namespace)
}

func (r *Reconciler) listPods(ctx context.Context, namespace string) ([]Pod, error) {
	fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	return r.repo.ListPodsQuery(fctx, namespace)
}

// applyPlan issues the DNS updates for every planned record. Domains fan
// out concurrently; within one domain updates stay sequential so the
// liveness-check record is written only after all of that domain's
// records. A failed update is logged and counted, never aborts the pass.
func (r *Reconciler) applyPlan(
	ctx context.Context,
	logger *slog.Logger,
	plan map[string][]Record,
	totalNodes int,
) (updates, failures int64) {
	var updateCount, failureCount atomic.Int64

	var wg sync.WaitGroup

	for domain, records := range plan {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range records {
				u, f := r.applyRecord(ctx, logger, &records[i], totalNodes)
				updateCount.Add(u)
				failureCount.Add(f)
			}

			if err := r.updateLivenessRecord(ctx, domain); err != nil {
				logger.ErrorContext(ctx, "liveness record update failed",
					"domain", domain,
					"reason", err,
				)
				metrics.RecordDNSUpdateFailure(domain)
				failureCount.Add(1)
			}

			updateCount.Add(1)
		}()
	}

	wg.Wait()

	return updateCount.Load(), failureCount.Load()
}

// applyRecord publishes the failover alias (when configured) and the
// primary name for one record.
func (r *Reconciler) applyRecord(
	ctx context.Context,
	logger *slog.Logger,
	record *Record,
	totalNodes int,
) (updates, failures int64) {
	if record.FailoverTarget != "" {
		// The stable failover alias stays resolvable even while the
		// primary is healthy.
		aliasFQDN := failoverNamePrefix + record.Name + "." + record.Domain
		values := []string{record.FailoverTarget}

		updates++

		if err := r.dns.UpdateRecordCommand(ctx, aliasFQDN, values, recordTTL, valuesRecordType(values)); err != nil {
			logger.ErrorContext(ctx, "failover alias update failed",
				"fqdn", aliasFQDN,
				"reason", err,
			)
			metrics.RecordDNSUpdateFailure(record.Domain)

			failures++
		}
	}

	fqdn := record.Name + "." + record.Domain

	values := record.Addresses
	if !Alive(record, totalNodes) {
		logger.WarnContext(ctx, "record below quota, publishing failover target",
			"fqdn", fqdn,
			"addresses", len(record.Addresses),
			"nodes", totalNodes,
		)

		values = nil
		if record.FailoverTarget != "" {
			values = []string{record.FailoverTarget}
		}
	}

	if len(values) == 0 {
		// Unhealthy with no failover target configured: nothing to
		// publish for the primary name.
		logger.WarnContext(ctx, "no values to publish, skipping record", "fqdn", fqdn)

		return updates, failures
	}

	updates++

	if err := r.dns.UpdateRecordCommand(ctx, fqdn, values, recordTTL, valuesRecordType(values)); err != nil {
		logger.ErrorContext(ctx, "record update failed",
			"fqdn", fqdn,
			"reason", err,
		)
		metrics.RecordDNSUpdateFailure(record.Domain)

		failures++
	}

	return updates, failures
}

// updateLivenessRecord writes the per-domain heartbeat: a CNAME encoding
// the cycle time down to the minute.
func (r *Reconciler) updateLivenessRecord(ctx context.Context, domain string) error {
	fqdn := livenessCheckName + "." + domain
	value := r.now().UTC().Format(livenessTimestampLayout)

	return r.dns.UpdateRecordCommand(ctx, fqdn, []string{value}, recordTTL, RecordTypeCNAME)
}

// reportFallback sends the previous snapshot, marked unavailable, to the
// status reporter. No DNS mutation happens on this path.
func (r *Reconciler) reportFallback(ctx context.Context, logger *slog.Logger) {
	var (
		records map[string][]Record
		nodes   []Node
	)

	if snapshot, ok := r.cache.Load(); ok {
		records = snapshot.Records
		nodes = snapshot.Nodes
	}

	r.report(ctx, logger, buildReport(records, nodes, false, r.now()))
}

// report marshals and sends the status document. A nil reporter skips
// silently; reporter errors are logged and never change the outcome.
func (r *Reconciler) report(ctx context.Context, logger *slog.Logger, status *StatusReport) {
	if r.reporter == nil {
		return
	}

	document, err := json.Marshal(status)
	if err != nil {
		logger.ErrorContext(ctx, "marshal status report", "reason", err)

		return
	}

	if err := r.reporter.WriteCommand(ctx, document); err != nil {
		logger.ErrorContext(ctx, "write status report", "reason", err)
	}
}

// buildReport derives the status document from a record plan and node list.
func buildReport(
	plan map[string][]Record,
	nodes []Node,
	available bool,
	now time.Time,
) *StatusReport {
	report := &StatusReport{
		Available:   available,
		GeneratedAt: now,
		Records:     make([]RecordStatus, 0, len(plan)),
		Nodes:       make([]NodeStatus, 0, len(nodes)),
	}

	for _, records := range plan {
		for i := range records {
			record := &records[i]

			report.Records = append(report.Records, RecordStatus{
				Domain:         record.Domain,
				Name:           record.Name,
				Alive:          Alive(record, len(nodes)),
				Addresses:      record.Addresses,
				FailoverTarget: record.FailoverTarget,
				QuotaPercent:   record.QuotaPercent,
			})
		}
	}

	for i := range nodes {
		report.Nodes = append(report.Nodes, NodeStatus{
			Name:    nodes[i].Name,
			Address: nodes[i].Address,
		})
	}

	return report
}

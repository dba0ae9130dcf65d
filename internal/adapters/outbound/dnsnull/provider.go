// Package dnsnull is the no-op DNS backend: every update succeeds and
// nothing is published. Used for tests and dry runs.
package dnsnull

import (
	"context"
	"log/slog"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

type provider struct {
	logger *slog.Logger
}

// New creates a no-op DNS provider.
func New(logger *slog.Logger) reconciler.DNSProvider {
	return &provider{logger: logger}
}

var _ reconciler.DNSProvider = (*provider)(nil)

func (p *provider) UpdateRecordCommand(
	ctx context.Context,
	fqdn string,
	values []string,
	_ int64,
	recordType reconciler.RecordType,
) error {
	p.logger.DebugContext(ctx, "record update discarded",
		"fqdn", fqdn,
		"type", string(recordType),
		"values", len(values),
	)

	return nil
}

package reconciler

import "context"

// Repository is the port interface for reading the cluster snapshot.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	ListServicesQuery(ctx context.Context, namespace string) ([]Service, error)

	ListPodsQuery(ctx context.Context, namespace string) ([]Pod, error)

	ListNodesQuery(ctx context.Context) ([]Node, error)
}

// DNSProvider is the port interface for publishing DNS records. The three
// implementations (route53, skydns, dnsnull) are interchangeable; the
// reconciler treats them identically.
type DNSProvider interface {
	UpdateRecordCommand(
		ctx context.Context,
		fqdn string,
		values []string,
		ttl int64,
		recordType RecordType,
	) error
}

// StatusReporter is the optional port interface for publishing the status
// document. A nil reporter disables reporting.
type StatusReporter interface {
	WriteCommand(ctx context.Context, document []byte) error
}

// unreachable is a private interface for checking cluster connectivity
// errors without importing the adapter package.
type unreachable interface {
	IsUnreachable()
}

package reconciler

const (
	// DefaultDomainLabelKey is the service label naming the DNS domain.
	DefaultDomainLabelKey = "domain"

	// DefaultNameLabelKey is the service label naming the record name
	// (the subdomain part under the domain).
	DefaultNameLabelKey = "name"

	// DefaultFailoverLabelKey is the service label naming the failover target.
	DefaultFailoverLabelKey = "failover"

	// DefaultQuotaLabelKey is the service label carrying the minimum node
	// coverage percentage.
	DefaultQuotaLabelKey = "quota"

	// recordTTL is the TTL applied to every published record.
	recordTTL = 60

	// livenessCheckName is the record name written once per domain after
	// all of that domain's records, carrying a timestamp value so external
	// monitoring can detect stale reconciliation.
	livenessCheckName = "kuberoute-liveness-check"

	// livenessTimestampLayout encodes the cycle time down to the minute.
	livenessTimestampLayout = "2006-01-02-15-04"

	// failoverNamePrefix prefixes the stable failover alias published next
	// to the primary name while the primary is healthy.
	failoverNamePrefix = "failover-"

	// percentScale is the divisor for percentage values (e.g. 80% -> 80/100).
	percentScale = 100
)

// LabelKeys holds the four configured service label names the planner
// reads record settings from.
type LabelKeys struct {
	Domain   string
	Name     string
	Failover string
	Quota    string
}

// DefaultLabelKeys returns the label names used when none are configured.
func DefaultLabelKeys() LabelKeys {
	return LabelKeys{
		Domain:   DefaultDomainLabelKey,
		Name:     DefaultNameLabelKey,
		Failover: DefaultFailoverLabelKey,
		Quota:    DefaultQuotaLabelKey,
	}
}

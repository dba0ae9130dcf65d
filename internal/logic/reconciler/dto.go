package reconciler

import "time"

// Service represents a Kubernetes service in the domain layer.
// Domain, Name, FailoverTarget and QuotaPercent are extracted from the
// configured labels by the planner; services without Domain and Name
// labels never become records.
type Service struct {
	Name      string
	Namespace string
	Labels    map[string]string
	Selector  map[string]string
}

// Pod represents a Kubernetes pod in the domain layer.
// NodeName is empty for unscheduled pods; such pods contribute no address.
type Pod struct {
	Name      string
	Namespace string
	Labels    map[string]string
	NodeName  string
}

// Node represents a Kubernetes node in the domain layer.
// Address is empty when the node exposes no routable address.
type Node struct {
	Name    string
	Address string
}

// RecordType is the DNS record type published for a name.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeCNAME RecordType = "CNAME"
)

// Record is one planned DNS record: the name part under a domain, the
// deduplicated addresses of the nodes hosting the service's pods, and the
// label-derived failover/quota settings.
type Record struct {
	Domain         string
	Name           string
	Type           RecordType
	Addresses      []string
	QuotaPercent   *int
	FailoverTarget string
}

// Snapshot is the unit held by the fallback cache: the records planned in
// one successful pass together with the node list they were planned from.
type Snapshot struct {
	Records    map[string][]Record
	Nodes      []Node
	ObservedAt time.Time
}

// RecordStatus is the per-record entry of the status document.
type RecordStatus struct {
	Domain         string   `json:"domain"`
	Name           string   `json:"name"`
	Alive          bool     `json:"alive"`
	Addresses      []string `json:"addresses"`
	FailoverTarget string   `json:"failoverTarget,omitempty"`
	QuotaPercent   *int     `json:"quotaPercent,omitempty"`
}

// NodeStatus is the per-node entry of the status document.
type NodeStatus struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// StatusReport is the JSON document sent to the status reporter after
// every cycle. Available is false only on the fallback path, where the
// records and nodes come from the previous cycle's snapshot.
type StatusReport struct {
	Available   bool           `json:"available"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Records     []RecordStatus `json:"records"`
	Nodes       []NodeStatus   `json:"nodes"`
}

package config

import "time"

// Env key constants. All kuberoute configuration env vars use KUBEROUTE_
// prefix; duration values support explicit units (e.g. 5m, 40s, 2h).

// DNS backend to publish records through: route53, skydns or null.
const envKeyDNSBackend = "KUBEROUTE_DNS_BACKEND"

// Cluster API auth strategy: kubeconfig, incluster or token.
const envKeyAuth = "KUBEROUTE_AUTH"

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "KUBEROUTE_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "KUBEROUTE_KUBE_MASTER"

// Bearer token for the token auth strategy.
const envKeyKubeToken = "KUBEROUTE_KUBE_TOKEN"

// Comma-separated list of namespaces queried for labeled services.
const envKeyNamespaces = "KUBEROUTE_NAMESPACES"

// Service label names the planner reads record settings from.
const (
	envKeyDomainLabel   = "KUBEROUTE_DOMAIN_LABEL"
	envKeyNameLabel     = "KUBEROUTE_NAME_LABEL"
	envKeyFailoverLabel = "KUBEROUTE_FAILOVER_LABEL"
	envKeyQuotaLabel    = "KUBEROUTE_QUOTA_LABEL"
)

// AWS region for the route53 backend.
const envKeyRoute53Region = "KUBEROUTE_ROUTE53_REGION"

// Comma-separated etcd endpoints for the skydns backend.
const envKeyEtcdEndpoints = "KUBEROUTE_ETCD_ENDPOINTS"

// S3 destination for the status document. Unset bucket disables reporting.
const (
	envKeyStatusS3Bucket = "KUBEROUTE_STATUS_S3_BUCKET"
	envKeyStatusS3Key    = "KUBEROUTE_STATUS_S3_KEY"
	envKeyStatusS3Region = "KUBEROUTE_STATUS_S3_REGION"
)

// Log level: debug, info, warn, error.
const envKeyLogLevel = "KUBEROUTE_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "KUBEROUTE_LOG_FORMAT"

// Port for trigger/health HTTP server.
const envKeyHTTPPort = "KUBEROUTE_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "KUBEROUTE_METRICS_PORT"

// Upper bound for a single cluster API list call. Units: s, m (e.g. 30s).
const (
	envKeyFetchTimeout = "KUBEROUTE_FETCH_TIMEOUT"
	envMinFetchTimeout = time.Second
)

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "KUBEROUTE_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// Standard k8s env keys used as fallback when KUBEROUTE_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)

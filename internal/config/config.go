package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

// DNS backend names accepted by KUBEROUTE_DNS_BACKEND.
const (
	BackendRoute53 = "route53"
	BackendSkyDNS  = "skydns"
	BackendNull    = "null"
)

// Cluster API auth strategies accepted by KUBEROUTE_AUTH.
const (
	AuthKubeConfig = "kubeconfig"
	AuthInCluster  = "incluster"
	AuthToken      = "token"
)

type Config struct {
	DNSBackend string
	Auth       string

	KubeConfig string
	KubeMaster string
	KubeToken  string

	Namespaces []string
	LabelKeys  reconciler.LabelKeys

	Route53Region  string
	EtcdEndpoints  []string
	StatusS3Bucket string
	StatusS3Key    string
	StatusS3Region string

	FetchTimeout   time.Duration
	PingerInterval time.Duration

	LogLevel    string
	LogFormat   string
	HTTPPort    string
	MetricsPort string
}

// Load reads configuration from the environment and validates it. Invalid
// backend/auth names and missing backend settings are startup-fatal; the
// reconciler assumes it is handed validated values.
func Load() (*Config, error) {
	cfg := &Config{
		DNSBackend: os.Getenv(envKeyDNSBackend),
		Auth:       getEnvOrDefault(envKeyAuth, AuthKubeConfig),
		KubeConfig: getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster: getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		KubeToken:  os.Getenv(envKeyKubeToken),
		Namespaces: splitList(getEnvOrDefault(envKeyNamespaces, "default")),
		LabelKeys: reconciler.LabelKeys{
			Domain:   getEnvOrDefault(envKeyDomainLabel, reconciler.DefaultDomainLabelKey),
			Name:     getEnvOrDefault(envKeyNameLabel, reconciler.DefaultNameLabelKey),
			Failover: getEnvOrDefault(envKeyFailoverLabel, reconciler.DefaultFailoverLabelKey),
			Quota:    getEnvOrDefault(envKeyQuotaLabel, reconciler.DefaultQuotaLabelKey),
		},
		Route53Region:  os.Getenv(envKeyRoute53Region),
		EtcdEndpoints:  splitList(os.Getenv(envKeyEtcdEndpoints)),
		StatusS3Bucket: os.Getenv(envKeyStatusS3Bucket),
		StatusS3Key:    getEnvOrDefault(envKeyStatusS3Key, "kuberoute-status.json"),
		StatusS3Region: os.Getenv(envKeyStatusS3Region),
		LogLevel:       getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:      getEnvOrDefault(envKeyLogFormat, "json"),
		HTTPPort:       getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort:    getEnvOrDefault(envKeyMetricsPort, "9090"),
	}

	var err error

	cfg.FetchTimeout, err = parseDurationEnv(envKeyFetchTimeout, "30s", envMinFetchTimeout)
	if err != nil {
		return nil, err
	}

	cfg.PingerInterval, err = parseDurationEnv(envKeyPingerInterval, "10s", envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DNSBackend {
	case BackendRoute53:
		if c.Route53Region == "" {
			return fmt.Errorf("%s is required for the %s backend", envKeyRoute53Region, BackendRoute53)
		}
	case BackendSkyDNS:
		if len(c.EtcdEndpoints) == 0 {
			return fmt.Errorf("%s is required for the %s backend", envKeyEtcdEndpoints, BackendSkyDNS)
		}
	case BackendNull:
	case "":
		return fmt.Errorf("%s is required (route53, skydns or null)", envKeyDNSBackend)
	default:
		return fmt.Errorf("unknown DNS backend %q", c.DNSBackend)
	}

	switch c.Auth {
	case AuthKubeConfig, AuthInCluster:
	case AuthToken:
		if c.KubeMaster == "" || c.KubeToken == "" {
			return fmt.Errorf("%s and %s are required for token auth", envKeyKubeMaster, envKeyKubeToken)
		}
	default:
		return fmt.Errorf("unknown auth strategy %q", c.Auth)
	}

	if len(c.Namespaces) == 0 {
		return fmt.Errorf("%s must name at least one namespace", envKeyNamespaces)
	}

	return nil
}

// ReportingEnabled reports whether a status reporter destination is configured.
func (c *Config) ReportingEnabled() bool {
	return c.StatusS3Bucket != ""
}

func parseDurationEnv(key, defaultValue string, minValue time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, defaultValue)

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if d < minValue {
		return 0, fmt.Errorf("%s must be at least %s, got %s", key, minValue, d)
	}

	return d, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvWithFallback(key, fallbackKey string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return os.Getenv(fallbackKey)
}

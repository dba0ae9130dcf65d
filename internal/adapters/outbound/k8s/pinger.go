package k8s

import (
	"context"
	"fmt"

	"k8s.io/client-go/kubernetes"
)

// ClusterPinger probes cluster API reachability for the health endpoints
// using the cheap /version call, never the list endpoints.
type ClusterPinger struct {
	clientset kubernetes.Interface
}

// NewClusterPinger creates a pinger for the cluster API.
func NewClusterPinger(clientset kubernetes.Interface) *ClusterPinger {
	return &ClusterPinger{clientset: clientset}
}

// Name returns the pinger component name.
func (p *ClusterPinger) Name() string {
	return "cluster-api"
}

// Ping checks the API server version endpoint.
func (p *ClusterPinger) Ping(_ context.Context) error {
	if _, err := p.clientset.Discovery().ServerVersion(); err != nil {
		return fmt.Errorf("cluster api version: %w", err)
	}

	return nil
}

package k8s

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

type adapter struct {
	logger    *slog.Logger
	clientset kubernetes.Interface
}

// New creates a new K8s adapter.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
) reconciler.Repository {
	return &adapter{
		logger:    logger,
		clientset: clientset,
	}
}

var _ reconciler.Repository = (*adapter)(nil)

func (a *adapter) ListServicesQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.Service, error) {
	serviceList, err := a.clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list services: %w", classify(err))
	}

	services := make([]reconciler.Service, 0, len(serviceList.Items))
	for i := range serviceList.Items {
		services = append(services, toDomainService(&serviceList.Items[i]))
	}

	return services, nil
}

func (a *adapter) ListPodsQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.Pod, error) {
	podList, err := a.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods: %w", classify(err))
	}

	pods := make([]reconciler.Pod, 0, len(podList.Items))
	for i := range podList.Items {
		pods = append(pods, toDomainPod(&podList.Items[i]))
	}

	return pods, nil
}

func (a *adapter) ListNodesQuery(ctx context.Context) ([]reconciler.Node, error) {
	nodeList, err := a.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", classify(err))
	}

	nodes := make([]reconciler.Node, 0, len(nodeList.Items))
	for i := range nodeList.Items {
		nodes = append(nodes, toDomainNode(&nodeList.Items[i]))
	}

	return nodes, nil
}

// classify wraps connectivity-shaped failures in UnreachableError so the
// reconciler can branch into its fallback path. API-level errors (not
// found, forbidden, ...) pass through unchanged: the API server answered,
// the cluster is reachable.
func classify(err error) error {
	switch {
	case apierrors.IsServerTimeout(err),
		apierrors.IsTimeout(err),
		apierrors.IsServiceUnavailable(err),
		apierrors.IsTooManyRequests(err):
		return &UnreachableError{cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &UnreachableError{cause: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &UnreachableError{cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &UnreachableError{cause: err}
	}

	return err
}

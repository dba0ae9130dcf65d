package k8s

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

func toDomainService(svc *corev1.Service) reconciler.Service {
	return reconciler.Service{
		Name:      svc.Name,
		Namespace: svc.Namespace,
		Labels:    svc.Labels,
		Selector:  svc.Spec.Selector,
	}
}

func toDomainPod(pod *corev1.Pod) reconciler.Pod {
	return reconciler.Pod{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		Labels:    pod.Labels,
		NodeName:  pod.Spec.NodeName,
	}
}

// toDomainNode picks the node's routable address, preferring ExternalIP
// over InternalIP. Nodes advertising neither get an empty address and are
// excluded from address resolution by the planner.
func toDomainNode(node *corev1.Node) reconciler.Node {
	out := reconciler.Node{
		Name: node.Name,
	}

	for i := range node.Status.Addresses {
		addr := &node.Status.Addresses[i]

		switch addr.Type {
		case corev1.NodeExternalIP:
			out.Address = addr.Address

			return out
		case corev1.NodeInternalIP:
			if out.Address == "" {
				out.Address = addr.Address
			}
		}
	}

	return out
}

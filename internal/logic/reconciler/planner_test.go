package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

func testNodes() []reconciler.Node {
	return []reconciler.Node{
		{Name: "node-1", Address: "10.0.0.1"},
		{Name: "node-2", Address: "10.0.0.2"},
	}
}

func testService(labels map[string]string) reconciler.Service {
	return reconciler.Service{
		Name:      "testapp",
		Namespace: "default",
		Labels:    labels,
		Selector:  map[string]string{"app": "testapp"},
	}
}

func testPod(name, namespace, node string) reconciler.Pod {
	return reconciler.Pod{
		Name:      name,
		Namespace: namespace,
		Labels:    map[string]string{"app": "testapp"},
		NodeName:  node,
	}
}

func TestPlanRecords(t *testing.T) {
	t.Parallel()

	keys := reconciler.DefaultLabelKeys()

	t.Run("service with domain and name becomes a record", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app", "quota": "80"}),
		}
		pods := []reconciler.Pod{
			testPod("pod-1", "default", "node-1"),
			testPod("pod-2", "default", "node-2"),
		}

		plan := reconciler.PlanRecords(services, pods, testNodes(), keys)

		require.Len(t, plan, 1)
		require.Len(t, plan["example.com"], 1)

		record := plan["example.com"][0]
		require.Equal(t, "app", record.Name)
		require.ElementsMatch(t, []string{"10.0.0.1", "10.0.0.2"}, record.Addresses)
		require.NotNil(t, record.QuotaPercent)
		require.Equal(t, 80, *record.QuotaPercent)
		require.Equal(t, reconciler.RecordTypeA, record.Type)
	})

	t.Run("service missing domain label is skipped", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"name": "app"}),
		}

		plan := reconciler.PlanRecords(services, nil, testNodes(), keys)
		require.Empty(t, plan)
	})

	t.Run("service missing name label is skipped", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com"}),
		}

		plan := reconciler.PlanRecords(services, nil, testNodes(), keys)
		require.Empty(t, plan)
	})

	t.Run("pod in another namespace is never selected", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app"}),
		}
		pods := []reconciler.Pod{
			testPod("pod-1", "other", "node-1"),
		}

		plan := reconciler.PlanRecords(services, pods, testNodes(), keys)

		require.Len(t, plan["example.com"], 1)
		require.Empty(t, plan["example.com"][0].Addresses)
	})

	t.Run("unscheduled pod contributes no address", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app"}),
		}
		pods := []reconciler.Pod{
			testPod("pod-1", "default", ""),
		}

		plan := reconciler.PlanRecords(services, pods, testNodes(), keys)
		require.Empty(t, plan["example.com"][0].Addresses)
	})

	t.Run("node without address contributes no address", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app"}),
		}
		pods := []reconciler.Pod{
			testPod("pod-1", "default", "node-3"),
		}
		nodes := append(testNodes(), reconciler.Node{Name: "node-3"})

		plan := reconciler.PlanRecords(services, pods, nodes, keys)
		require.Empty(t, plan["example.com"][0].Addresses)
	})

	t.Run("two pods on one node deduplicate to one address", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app"}),
		}
		pods := []reconciler.Pod{
			testPod("pod-1", "default", "node-1"),
			testPod("pod-2", "default", "node-1"),
		}

		plan := reconciler.PlanRecords(services, pods, testNodes(), keys)
		require.Equal(t, []string{"10.0.0.1"}, plan["example.com"][0].Addresses)
	})

	t.Run("pod with non-matching labels is not selected", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app"}),
		}
		pods := []reconciler.Pod{
			{
				Name:      "pod-1",
				Namespace: "default",
				Labels:    map[string]string{"app": "other"},
				NodeName:  "node-1",
			},
		}

		plan := reconciler.PlanRecords(services, pods, testNodes(), keys)
		require.Empty(t, plan["example.com"][0].Addresses)
	})

	t.Run("pod labels may be a superset of the selector", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{"domain": "example.com", "name": "app"}),
		}
		pods := []reconciler.Pod{
			{
				Name:      "pod-1",
				Namespace: "default",
				Labels:    map[string]string{"app": "testapp", "tier": "web"},
				NodeName:  "node-1",
			},
		}

		plan := reconciler.PlanRecords(services, pods, testNodes(), keys)
		require.Equal(t, []string{"10.0.0.1"}, plan["example.com"][0].Addresses)
	})

	t.Run("failover label is carried onto the record", func(t *testing.T) {
		t.Parallel()

		services := []reconciler.Service{
			testService(map[string]string{
				"domain":   "example.com",
				"name":     "app",
				"failover": "backup.example.org",
			}),
		}

		plan := reconciler.PlanRecords(services, nil, testNodes(), keys)

		record := plan["example.com"][0]
		require.Equal(t, "backup.example.org", record.FailoverTarget)
		// No addresses: the type follows the hostname-shaped failover target.
		require.Equal(t, reconciler.RecordTypeCNAME, record.Type)
	})

	t.Run("invalid quota label is ignored", func(t *testing.T) {
		t.Parallel()

		for _, quota := range []string{"abc", "-1", "101"} {
			services := []reconciler.Service{
				testService(map[string]string{"domain": "example.com", "name": "app", "quota": quota}),
			}

			plan := reconciler.PlanRecords(services, nil, testNodes(), keys)
			require.Nil(t, plan["example.com"][0].QuotaPercent, "quota %q", quota)
		}
	})

	t.Run("services targeting one domain append in discovery order", func(t *testing.T) {
		t.Parallel()

		first := testService(map[string]string{"domain": "example.com", "name": "app"})
		second := testService(map[string]string{"domain": "example.com", "name": "api"})
		second.Name = "api"
		second.Selector = map[string]string{"app": "api"}

		plan := reconciler.PlanRecords(
			[]reconciler.Service{first, second},
			nil,
			testNodes(),
			keys,
		)

		require.Len(t, plan["example.com"], 2)
		require.Equal(t, "app", plan["example.com"][0].Name)
		require.Equal(t, "api", plan["example.com"][1].Name)
	})

	t.Run("custom label keys are honored", func(t *testing.T) {
		t.Parallel()

		custom := reconciler.LabelKeys{
			Domain:   "dns.io/domain",
			Name:     "dns.io/name",
			Failover: "dns.io/failover",
			Quota:    "dns.io/quota",
		}
		services := []reconciler.Service{
			testService(map[string]string{
				"dns.io/domain": "example.com",
				"dns.io/name":   "app",
				"dns.io/quota":  "50",
			}),
		}

		plan := reconciler.PlanRecords(services, nil, testNodes(), custom)

		require.Len(t, plan["example.com"], 1)
		require.Equal(t, 50, *plan["example.com"][0].QuotaPercent)
	})
}

package reconciler

import (
	"net"
	"strconv"

	"k8s.io/apimachinery/pkg/labels"
)

// PlanRecords turns one cluster snapshot into the per-domain record plan.
// Services missing the domain or name label are skipped silently; pods
// without a node and nodes without an address contribute no address.
// Nothing here fails: malformed input degrades the affected record only.
func PlanRecords(
	services []Service,
	pods []Pod,
	nodes []Node,
	keys LabelKeys,
) map[string][]Record {
	nodeAddresses := make(map[string]string, len(nodes))

	for i := range nodes {
		if nodes[i].Address != "" {
			nodeAddresses[nodes[i].Name] = nodes[i].Address
		}
	}

	plan := make(map[string][]Record)

	for i := range services {
		record, ok := planServiceRecord(&services[i], pods, nodeAddresses, keys)
		if !ok {
			continue
		}

		plan[record.Domain] = append(plan[record.Domain], record)
	}

	return plan
}

// planServiceRecord builds the record for one service, or reports the
// service as not a candidate when the domain or name label is missing.
func planServiceRecord(
	svc *Service,
	pods []Pod,
	nodeAddresses map[string]string,
	keys LabelKeys,
) (Record, bool) {
	domain := svc.Labels[keys.Domain]
	name := svc.Labels[keys.Name]

	if domain == "" || name == "" {
		return Record{}, false
	}

	record := Record{
		Domain:         domain,
		Name:           name,
		FailoverTarget: svc.Labels[keys.Failover],
		Addresses:      resolveAddresses(svc, pods, nodeAddresses),
	}

	if quotaStr, ok := svc.Labels[keys.Quota]; ok {
		if quota, err := strconv.Atoi(quotaStr); err == nil && quota >= 0 && quota <= percentScale {
			record.QuotaPercent = &quota
		}
	}

	record.Type = inferRecordType(&record)

	return record, true
}

// resolveAddresses maps the service's selected pods to the addresses of
// their hosting nodes. Selection is restricted to the service's own
// namespace; the result is deduplicated and contains no empty strings.
func resolveAddresses(
	svc *Service,
	pods []Pod,
	nodeAddresses map[string]string,
) []string {
	selector := labels.SelectorFromSet(labels.Set(svc.Selector))

	seen := make(map[string]struct{})
	addresses := make([]string, 0, len(pods))

	for i := range pods {
		pod := &pods[i]

		if pod.Namespace != svc.Namespace {
			continue
		}

		if pod.NodeName == "" {
			continue
		}

		if !selector.Matches(labels.Set(pod.Labels)) {
			continue
		}

		address, ok := nodeAddresses[pod.NodeName]
		if !ok {
			continue
		}

		if _, dup := seen[address]; dup {
			continue
		}

		seen[address] = struct{}{}
		addresses = append(addresses, address)
	}

	return addresses
}

// inferRecordType returns CNAME when the record's published values look
// like hostnames rather than IP addresses.
func inferRecordType(record *Record) RecordType {
	if len(record.Addresses) > 0 {
		return valuesRecordType(record.Addresses)
	}

	if record.FailoverTarget != "" {
		return valuesRecordType([]string{record.FailoverTarget})
	}

	return RecordTypeA
}

// valuesRecordType is A only when every value parses as an IP address.
func valuesRecordType(values []string) RecordType {
	for _, v := range values {
		if net.ParseIP(v) == nil {
			return RecordTypeCNAME
		}
	}

	return RecordTypeA
}

package reconciler

// Alive reports whether a record's service is healthy enough to publish
// its live addresses. An empty address set is never alive. When a quota
// is present, the share of cluster nodes serving the record must reach
// it: addresses/totalNodes >= quota percent, with the boundary counting
// as satisfied.
//
// The denominator is the total cluster node count, including nodes
// without a routable address. Losing node addresses therefore pushes a
// service toward failover instead of masking cluster shrinkage.
func Alive(record *Record, totalNodes int) bool {
	serving := len(record.Addresses)
	if serving == 0 {
		return false
	}

	if record.QuotaPercent == nil {
		return true
	}

	if totalNodes == 0 {
		return false
	}

	// serving/totalNodes*100 >= quota, kept in integers.
	return serving*percentScale >= *record.QuotaPercent*totalNodes
}

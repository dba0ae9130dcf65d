package k8s

// UnreachableError represents a cluster API connectivity failure, as
// opposed to an API-level error. The reconciler branches into its
// fallback path on this condition.
type UnreachableError struct {
	cause error
}

func (e *UnreachableError) Error() string {
	return "cluster API unreachable: " + e.cause.Error()
}

func (e *UnreachableError) Unwrap() error {
	return e.cause
}

func (e *UnreachableError) IsUnreachable() {}

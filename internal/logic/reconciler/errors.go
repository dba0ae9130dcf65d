package reconciler

import "errors"

var (
	ErrFetchSnapshot      = errors.New("fetch cluster snapshot")
	ErrClusterUnreachable = errors.New("cluster API unreachable")
)

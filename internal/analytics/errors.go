package analytics

import "errors"

// Analytics errors.
var (
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrInvalidGroupBy = errors.New("invalid group_by")
)

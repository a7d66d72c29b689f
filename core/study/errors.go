package study

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig is returned at startup for a scheduler that cannot compute any day.
	ErrInvalidConfig = errors.New("invalid study cycle configuration")

	// ErrInvalidDate is returned for query dates that are not valid calendar dates.
	ErrInvalidDate = errors.New("invalid date")
)

package terrain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when terrain parameters cannot produce a grid.
var ErrInvalidConfig = errors.New("invalid terrain config")

// ErrSampleRange is reported when a sampler returns a value outside [0,1].
var ErrSampleRange = errors.New("sample out of range [0,1]")

// SampleError reports a sampler failure at one grid coordinate.
type SampleError struct {
	I, J  int
	Value float32
	Err   error
}

func (e *SampleError) Error() string {
	if errors.Is(e.Err, ErrSampleRange) {
		return fmt.Sprintf("sample (%d,%d): %v: got %v", e.I, e.J, e.Err, e.Value)
	}
	return fmt.Sprintf("sample (%d,%d): %v", e.I, e.J, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

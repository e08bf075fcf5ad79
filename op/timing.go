package op

import (
	"fmt"
	"time"
)

// Instrument times operations and reports them through Log when Enabled.
type Instrument struct {
	Enabled bool
	Log     func(string)
}

// Measure runs fn and, when in is enabled and fn succeeded, logs
// "<name> executed in <ms> ms". Results and errors pass through untouched.
func Measure[T any](in Instrument, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	if err != nil {
		return result, err
	}
	if in.Enabled && in.Log != nil {
		in.Log(fmt.Sprintf("%s executed in %d ms", name, time.Since(start).Milliseconds()))
	}
	return result, nil
}

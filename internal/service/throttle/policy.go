package throttle

import "time"

const (
	PreferredDailyCap = 4
	HardDailyCap      = 6
	MinSpacing        = 90 * time.Minute
)

// Policy holds the admission limits. The values are fixed; the type exists so
// the evaluator reads them from one place.
type Policy struct {
	PreferredDailyCap int
	HardDailyCap      int
	MinSpacing        time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		PreferredDailyCap: PreferredDailyCap,
		HardDailyCap:      HardDailyCap,
		MinSpacing:        MinSpacing,
	}
}

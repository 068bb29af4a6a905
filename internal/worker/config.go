// Package worker provides background job processing for VisitRoute.
package worker

import (
	"time"
)

// RefreshConfig holds configuration for the travel-time matrix refresh job.
type RefreshConfig struct {
	// Timeout bounds one full matrix rebuild, provider calls included.
	// Default: 5 minutes.
	Timeout time.Duration

	// MinActivities refuses to swap in a matrix built from a suspiciously
	// small catalog, e.g. after a partial load. Default: 1.
	MinActivities int
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Timeout:       5 * time.Minute,
		MinActivities: 1,
	}
}

func (c RefreshConfig) withDefaults() RefreshConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultRefreshConfig().Timeout
	}
	if c.MinActivities <= 0 {
		c.MinActivities = DefaultRefreshConfig().MinActivities
	}
	return c
}

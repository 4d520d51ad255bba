package usecase

import "time"

const (
	// DefaultCacheTTL is how long a normalized expense stays cached when no
	// TTL is configured.
	DefaultCacheTTL = 15 * time.Minute

	// consistencySweepPageSize bounds each page of the ledger sweep.
	consistencySweepPageSize = 500
)

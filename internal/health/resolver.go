package health

import "time"

// Status is the hysteresis-smoothed availability classification derived from
// recent probes.
type Status string

const (
	StatusOnline   Status = "online"
	StatusUnstable Status = "unstable"
	StatusOffline  Status = "offline"
	// StatusUnknown means there is no probe data fresh enough to report.
	StatusUnknown Status = "unknown"
)

// Check is the slice of a health check record the resolver cares about.
type Check struct {
	IsOnline  bool
	CheckedAt time.Time
}

// ResolveEffectiveStatus turns an ordered probe history into one status.
// checks[0] must be the most recent check; the caller guarantees ordering.
//
// Rules:
//   - no checks, or the newest check older than window → unknown
//   - newest check online → online, regardless of older history
//   - otherwise up to tolerance checks within the window: all offline →
//     offline, at least one online → unstable
//
// The single-newest-online rule makes recovery visible immediately instead of
// being smoothed away by the tolerance window.
func ResolveEffectiveStatus(checks []Check, now time.Time, window time.Duration, tolerance int) Status {
	if window <= 0 {
		window = 48 * time.Hour
	}
	if tolerance <= 0 {
		tolerance = 5
	}
	if len(checks) == 0 {
		return StatusUnknown
	}
	cutoff := now.Add(-window)
	if checks[0].CheckedAt.Before(cutoff) {
		return StatusUnknown
	}
	if checks[0].IsOnline {
		return StatusOnline
	}

	anyOnline := false
	inspected := 0
	for _, c := range checks {
		if inspected >= tolerance {
			break
		}
		if c.CheckedAt.Before(cutoff) {
			break
		}
		inspected++
		if c.IsOnline {
			anyOnline = true
		}
	}
	if anyOnline {
		return StatusUnstable
	}
	return StatusOffline
}

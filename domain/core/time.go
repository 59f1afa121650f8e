package core

import "time"

// Now returns the current UTC time truncated to microseconds, the resolution
// postgres keeps for TIMESTAMPTZ columns. Snapshots read back from storage
// then compare equal to the ones that were stored.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

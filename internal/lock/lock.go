package lock

import (
	"time"
)

// Lock is a distributed lock. Booking creation and payment capture take
// a per-ticket lock so quantity checks and decrements do not interleave
// across instances.
type Lock interface {
	// AcquireLock acquires the named lock. The bool reports whether the
	// lock was obtained.
	AcquireLock(lockName string, timeout time.Duration) (bool, error)

	// RefreshLock extends the expiry of a held lock.
	RefreshLock(lockName string, timeout time.Duration) (bool, error)

	// ReleaseLock releases the named lock.
	ReleaseLock(lockName string) error

	// ReleaseAllLocks releases every lock this client holds.
	ReleaseAllLocks()

	// Close shuts the lock client down.
	Close() error
}

// TicketLockName returns the lock name guarding one ticket's quantity.
func TicketLockName(ticketID string) string {
	return "ticket:lock:" + ticketID
}

package etcdop

import (
	"fmt"
)

// AlreadyLockedError is returned from a TryLock operation when the lock is hold by another session.
type AlreadyLockedError struct {
	Key string
}

func (e AlreadyLockedError) Error() string {
	return fmt.Sprintf(`lock "%s" is used by another process`, e.Key)
}

package problem

import "time"

// PublicationLockName serializes the assignment of public problem numbers across all instances.
const PublicationLockName = "makePublic"

type Config struct {
	// LockWaitTimeout bounds how long a publication request waits for the lock.
	LockWaitTimeout time.Duration `json:"lockWaitTimeout" configKey:"lockWaitTimeout" configUsage:"How long a publish request waits for the numbering lock." validate:"required,minDuration=1s,maxDuration=1m"`
}

func NewConfig() Config {
	return Config{
		LockWaitTimeout: 10 * time.Second,
	}
}

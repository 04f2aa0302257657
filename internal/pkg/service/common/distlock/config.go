package distlock

// Config configures the distributed locks provider.
type Config struct {
	// SessionTTLSeconds is TTL of the etcd session used by the locks.
	// If an outage of the node is longer, the session is expired and all locks are released.
	SessionTTLSeconds int `json:"sessionTTLSeconds" configKey:"sessionTTLSeconds" configUsage:"TTL of the etcd session, in seconds, locks are released on expiration." validate:"required,min=1,max=30"`
}

func NewConfig() Config {
	return Config{
		SessionTTLSeconds: 5,
	}
}

package progress

import "time"

type Config struct {
	// InactivityTimeout expires a channel subscription with no inbound traffic.
	InactivityTimeout time.Duration `json:"inactivityTimeout" configKey:"inactivityTimeout" configUsage:"Inactivity timeout of a channel subscription." validate:"required,minDuration=10s,maxDuration=1h"`
	// StreamTimeout closes a client stream that outlived its own deadline.
	// It must not be shorter than InactivityTimeout, otherwise a live subscription
	// could feed an already closed stream.
	StreamTimeout    time.Duration `json:"streamTimeout" configKey:"streamTimeout" configUsage:"Timeout of a client stream." validate:"required,minDuration=10s,maxDuration=24h,gtefield=InactivityTimeout"`
	StreamBufferSize int           `json:"streamBufferSize" configKey:"streamBufferSize" configUsage:"Capacity of the client stream event buffer." validate:"required,min=1,max=10000"`
}

func NewConfig() Config {
	return Config{
		InactivityTimeout: 5 * time.Minute,
		StreamTimeout:     30 * time.Minute,
		StreamBufferSize:  16,
	}
}

package outbox

import "time"

type Config struct {
	QueueName       string        `json:"queueName" configKey:"queueName" configUsage:"Name of the grading queue." validate:"required"`
	DispatchTimeout time.Duration `json:"dispatchTimeout" configKey:"dispatchTimeout" configUsage:"Timeout of one dispatch attempt." validate:"required,minDuration=1s,maxDuration=5m"`
	SweepInterval   time.Duration `json:"sweepInterval" configKey:"sweepInterval" configUsage:"How often the retry sweep runs." validate:"required,minDuration=1s,maxDuration=24h"`
	SweepThreshold  time.Duration `json:"sweepThreshold" configKey:"sweepThreshold" configUsage:"Minimum age of a record to be retried by the sweep." validate:"required,minDuration=10s,maxDuration=24h"`
	SweepBatchSize  int           `json:"sweepBatchSize" configKey:"sweepBatchSize" configUsage:"Maximum number of records retried by one sweep." validate:"required,min=1,max=1000"`
}

func NewConfig() Config {
	return Config{
		QueueName:       "submission-request-queue",
		DispatchTimeout: 10 * time.Second,
		SweepInterval:   30 * time.Second,
		SweepThreshold:  time.Minute,
		SweepBatchSize:  100,
	}
}

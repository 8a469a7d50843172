package redis

import "time"

// Config describes the Redis connection and the layout of stored option sets.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	KeyPrefix string        `env:"REDIS_STATE_PREFIX" envDefault:"formguard:options:"` // prepended to every container id
	StateTTL  time.Duration `env:"REDIS_STATE_TTL" envDefault:"0"`                     // zero keeps option sets forever
}

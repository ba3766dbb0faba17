package challenge

import "time"

type Config struct {
	ConnectionURL  string        `env:"CHALLENGE_REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the redis URL, e.g. "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"CHALLENGE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval  time.Duration `env:"CHALLENGE_REDIS_RETRY_INTERVAL" envDefault:"5s"`            // RetryInterval is the pause between connection attempts.
	ConnectTimeout time.Duration `env:"CHALLENGE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds the whole connect-with-retry loop.
	TTL            time.Duration `env:"CHALLENGE_TTL" envDefault:"5m"`                             // TTL is how long an issued challenge stays consumable.
}

package yubiotp

import "time"

type Config struct {
	ClientID string        `env:"YUBICO_CLIENT_ID"`                     // ClientID is the API client id issued by the validation service.
	APIKey   string        `env:"YUBICO_API_KEY"`                       // APIKey is the base64-encoded shared secret for request/response signing. Optional.
	Servers  []string      `env:"YUBICO_API_SERVERS" envSeparator:","`  // Servers overrides the default validation endpoint pool.
	Timeout  time.Duration `env:"YUBICO_API_TIMEOUT" envDefault:"5s"`   // Timeout is the per-server request timeout.
	SyncLevel string       `env:"YUBICO_SYNC_LEVEL" envDefault:"50"`    // SyncLevel is the percentage of syncing required before the service answers.
}

// DefaultServers is the standard validation endpoint pool. Each server gives
// an independent answer; querying them in randomized order spreads load and
// survives individual outages.
var DefaultServers = []string{
	"https://api.yubico.com/wsapi/2.0/verify",
	"https://api2.yubico.com/wsapi/2.0/verify",
	"https://api3.yubico.com/wsapi/2.0/verify",
	"https://api4.yubico.com/wsapi/2.0/verify",
	"https://api5.yubico.com/wsapi/2.0/verify",
}

package config_test

import (
	"testing"
	"time"

	"github.com/pbxkit/mfa/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceConfig struct {
	Name    string        `env:"SVC_NAME" envDefault:"mfa"`
	Port    int           `env:"SVC_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"SVC_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Token string `env:"SVC_REQUIRED_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("SVC_NAME", "mfa-test")
	t.Setenv("SVC_PORT", "9090")

	var cfg serviceConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "mfa-test", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("SVC_NAME", "first")

	var first serviceConfig
	require.NoError(t, config.Load(&first))

	// Later environment changes do not affect an already loaded type.
	t.Setenv("SVC_NAME", "second")
	var second serviceConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first.Name, second.Name)
}

func TestLoadNilPointer(t *testing.T) {
	t.Parallel()
	err := config.Load[serviceConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoadMissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/config"
)

type testConfig struct {
	HTTP struct {
		Addr           string        `mapstructure:"addr"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"http"`

	Auth struct {
		Secret          string   `mapstructure:"secret"`
		PreviousSecrets []string `mapstructure:"previous_secrets"`
	} `mapstructure:"auth"`
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
http:
  request_timeout: 5s
auth:
  secret: from-file
  previous_secrets: [old-1, old-2]
`), 0o600))

	t.Setenv("AUTH_SECRET", "from-env")

	var c testConfig
	c.HTTP.Addr = ":8080"
	c.HTTP.RequestTimeout = 30 * time.Second

	require.NoError(t, config.Load(file, &c))

	require.Equal(t, ":8080", c.HTTP.Addr, "default should survive when the file omits the key")
	require.Equal(t, 5*time.Second, c.HTTP.RequestTimeout)
	require.Equal(t, "from-env", c.Auth.Secret, "env should override the file")
	require.Equal(t, []string{"old-1", "old-2"}, c.Auth.PreviousSecrets)
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")

	var c testConfig
	c.HTTP.Addr = ":8080"

	require.NoError(t, config.Load("", &c))
	require.Equal(t, ":9999", c.HTTP.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	var c testConfig
	require.Error(t, config.Load(filepath.Join(t.TempDir(), "nope.yaml"), &c))
}

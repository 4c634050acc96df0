package server

import (
	"errors"
	"time"

	"github.com/mind-engage/quizsystem/internal/logging"
)

type Config struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		RequestTimeout  time.Duration `mapstructure:"request_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	DB struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"db"`

	Auth struct {
		Secret          string        `mapstructure:"secret"`
		PreviousSecrets []string      `mapstructure:"previous_secrets"`
		TokenTTL        time.Duration `mapstructure:"token_ttl"`
		Issuer          string        `mapstructure:"issuer"`
		BcryptCost      int           `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`

	Session struct {
		Addrs        []string      `mapstructure:"addrs"`
		Password     string        `mapstructure:"password"`
		Prefix       string        `mapstructure:"prefix"`
		TTL          time.Duration `mapstructure:"ttl"`
		CookieName   string        `mapstructure:"cookie_name"`
		CookieSecure bool          `mapstructure:"cookie_secure"`
	} `mapstructure:"session"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`

	Log logging.Config `mapstructure:"log"`

	Debug struct {
		PProf bool `mapstructure:"pprof"`
	} `mapstructure:"debug"`
}

// DefaultConfig is the config used for keys absent from file and env.
func DefaultConfig() Config {
	var c Config
	c.HTTP.Addr = ":8080"
	c.HTTP.RequestTimeout = 30 * time.Second
	c.HTTP.ShutdownTimeout = 10 * time.Second
	c.DB.Driver = "sqlite"
	c.DB.DSN = "file:quizsystem.db?cache=shared&mode=rwc"
	c.Auth.PreviousSecrets = []string{}
	c.Auth.Issuer = "quizsystem"
	c.Session.Addrs = []string{"localhost:6379"}
	c.Session.Prefix = "quizsystem:"
	c.Session.TTL = 24 * time.Hour
	c.Session.CookieName = "quizsystem_session"
	c.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	c.Log.Level = "info"
	c.Log.Format = "console"
	return c
}

func (c Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret must be set")
	}
	if len(c.Session.Addrs) == 0 {
		return errors.New("session.addrs must list at least one redis address")
	}
	return nil
}

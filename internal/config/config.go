// Package config carga la configuración del servicio: YAML con defaults,
// overrides por variables de entorno y descifrado de secretos "enc:".
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/hellojohn-social/internal/security/secretbox"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env  string `yaml:"env" env:"APP_ENV"`
		Name string `yaml:"name" env:"APP_NAME"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	Server struct {
		Addr            string        `yaml:"addr" env:"SERVER_ADDR"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres | sqlite | redis
		Driver   string `yaml:"driver" env:"STORAGE_DRIVER"`
		DSN      string `yaml:"dsn" env:"STORAGE_DSN"`
		Migrate  bool   `yaml:"migrate" env:"STORAGE_MIGRATE"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns" env:"POSTGRES_MAX_OPEN_CONNS"`
			MaxIdleConns int `yaml:"max_idle_conns" env:"POSTGRES_MAX_IDLE_CONNS"`
		} `yaml:"postgres"`
		Redis struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
			Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
		} `yaml:"redis"`
	} `yaml:"storage"`

	JWT struct {
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
		// HS256 | EdDSA
		Alg    string `yaml:"alg" env:"JWT_ALG"`
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		// EdDSA: seed base64 de 32 bytes; vacío = clave efímera (solo dev).
		SigningSeed string `yaml:"signing_seed" env:"JWT_SIGNING_SEED"`
		KID         string `yaml:"kid" env:"JWT_KID"`
	} `yaml:"jwt"`

	Security struct {
		SecretBoxMasterKey string `yaml:"secretbox_master_key" env:"SECRETBOX_MASTER_KEY"`
	} `yaml:"security"`

	Providers struct {
		Facebook struct {
			ClientID     string        `yaml:"client_id" env:"FACEBOOK_CLIENT_ID"`
			ClientSecret string        `yaml:"client_secret" env:"FACEBOOK_CLIENT_SECRET"` // admite "enc:..."
			BaseURL      string        `yaml:"base_url" env:"FACEBOOK_BASE_URL"`
			Timeout      time.Duration `yaml:"timeout" env:"FACEBOOK_TIMEOUT"`
		} `yaml:"facebook"`
	} `yaml:"providers"`
}

// Load lee el YAML en path (opcional: si no existe se usan defaults), aplica
// overrides de entorno, defaults, descifra secretos y valida.
func Load(path string) (*Config, error) {
	var c Config

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// sin archivo: solo env + defaults
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	// Overrides por env
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	c.applyDefaults()

	if err := c.revealSecrets(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "hellojohn-social"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.JWT.Alg == "" {
		c.JWT.Alg = "HS256"
	}
	if c.JWT.KID == "" {
		c.JWT.KID = "hjs-1"
	}
	if c.Providers.Facebook.BaseURL == "" {
		c.Providers.Facebook.BaseURL = "https://graph.facebook.com"
	}
	if c.Providers.Facebook.Timeout == 0 {
		c.Providers.Facebook.Timeout = 10 * time.Second
	}
}

func (c *Config) revealSecrets() error {
	key := c.Security.SecretBoxMasterKey

	secret, err := secretbox.Reveal(key, c.Providers.Facebook.ClientSecret)
	if err != nil {
		return fmt.Errorf("config: providers.facebook.client_secret: %w", err)
	}
	c.Providers.Facebook.ClientSecret = secret

	jwtSecret, err := secretbox.Reveal(key, c.JWT.Secret)
	if err != nil {
		return fmt.Errorf("config: jwt.secret: %w", err)
	}
	c.JWT.Secret = jwtSecret
	return nil
}

// IsProd indica si app.env es prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// Validate chequea combinaciones inválidas.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case "memory":
	case "postgres", "sqlite":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, fmt.Errorf("storage.dsn requerido para driver %s", c.Storage.Driver))
		}
	case "redis":
		if strings.TrimSpace(c.Storage.Redis.Addr) == "" {
			errs = append(errs, errors.New("storage.redis.addr requerido para driver redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver inválido: %q", c.Storage.Driver))
	}

	switch c.JWT.Alg {
	case "HS256":
		if len(c.JWT.Secret) < 32 {
			errs = append(errs, errors.New("jwt.secret debe tener al menos 32 bytes para HS256"))
		}
	case "EdDSA":
		if c.IsProd() && strings.TrimSpace(c.JWT.SigningSeed) == "" {
			errs = append(errs, errors.New("jwt.signing_seed requerido en prod para EdDSA"))
		}
	default:
		errs = append(errs, fmt.Errorf("jwt.alg inválido: %q (HS256|EdDSA)", c.JWT.Alg))
	}

	fb := c.Providers.Facebook
	if strings.TrimSpace(fb.ClientID) == "" || strings.TrimSpace(fb.ClientSecret) == "" {
		errs = append(errs, errors.New("providers.facebook.client_id y client_secret requeridos"))
	}
	if fb.Timeout < 0 {
		errs = append(errs, errors.New("providers.facebook.timeout no puede ser negativo"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

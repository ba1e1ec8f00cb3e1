package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT JWTConfig `mapstructure:"jwt"`
}

// JWTConfig holds the token-signing settings. There is exactly one signing
// secret and one access-token TTL for the whole service; SecretKey has no
// embedded fallback and must be provided via config or JWT_SECRET_KEY.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
}

// Validate ensures required fields are present so the service fails at
// startup instead of issuing unverifiable or unsigned tokens later.
func (c JWTConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("jwt.secretKey is required (set JWT_SECRET_KEY or jwt.secretKey in config)")
	}
	if len(c.SecretKey) < 32 {
		return errors.New("jwt.secretKey must be at least 32 bytes")
	}
	if c.Issuer == "" {
		return errors.New("jwt.issuer is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("jwt.accessTokenTTL must be positive")
	}
	return nil
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment, never from the embedded file.
	_ = v.BindEnv("jwt.secretKey", "JWT_SECRET_KEY")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if err = config.JWT.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid jwt config: %w", err)
	}

	return config, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml file. Environment variables use the ORDERING_ prefix with
// underscores for nesting (e.g. ORDERING_SERVER_PORT) and take precedence
// over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "storage/product/images")
	v.SetDefault("auth.client_base_url", "http://localhost:5000")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars may carry everything.
	}

	v.SetEnvPrefix("ORDERING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys, so bind the ones we rely on.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.url",
		"auth.state_secret", "auth.client_base_url",
		"oauth.google_client_id", "oauth.google_client_secret", "oauth.google_redirect_url",
		"storage.driver", "storage.local_dir",
		"storage.s3_region", "storage.s3_bucket", "storage.s3_endpoint",
		"storage.s3_access_key", "storage.s3_secret_key",
		"redis.addr", "redis.password", "redis.db",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

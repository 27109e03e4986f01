package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	// StateSecret signs the short-lived OAuth state parameter.
	StateSecret string `mapstructure:"state_secret" validate:"required,min=32"`

	// ClientBaseURL is the address of the browser client, used for the
	// federated login success redirect.
	ClientBaseURL string `mapstructure:"client_base_url" validate:"required,url"`
}

// OAuthConfig contains the Google federated login settings. Federated login
// is disabled when the client ID is empty.
type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	GoogleRedirectURL  string `mapstructure:"google_redirect_url" validate:"omitempty,url"`
}

// StorageConfig contains the product image storage settings.
// Driver selects the backend: "local" writes under LocalDir, "s3" uses the
// S3 settings (which also cover MinIO via Endpoint).
type StorageConfig struct {
	Driver   string `mapstructure:"driver"    validate:"required,oneof=local s3"`
	LocalDir string `mapstructure:"local_dir" validate:"required_if=Driver local"`

	S3Region    string `mapstructure:"s3_region"     validate:"required_if=Driver s3"`
	S3Bucket    string `mapstructure:"s3_bucket"     validate:"required_if=Driver s3"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
}

// RedisConfig contains the notification publisher settings. Publishing is
// disabled when Addr is empty; notifications are still stored durably.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

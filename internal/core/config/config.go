package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// StorageBackend selects the unit repository: memory, redis or postgres.
	StorageBackend string `mapstructure:"STORAGE_BACKEND" default:"memory"`
	// AdminActors is a comma separated list of actor names allowed to edit and delete units.
	AdminActors string `mapstructure:"ADMIN_ACTORS"`

	// Redis holds the redis connection used by the redis backend.
	Redis RedisConfig `mapstructure:",squash"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Archive holds the optional object storage for audit exports.
	Archive ArchiveConfig `mapstructure:",squash"`
}

// RedisConfig holds the redis connection details.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Host is the database server hostname.
	Host string `mapstructure:"DB_HOST" default:"localhost"`
	// Port is the database connection port.
	Port     int    `mapstructure:"DB_PORT" default:"5432"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE" default:"disable"`
	// Pool settings, zero keeps the driver default.
	MaxOpenConns       int `mapstructure:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int `mapstructure:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int `mapstructure:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// ArchiveConfig holds the S3-compatible bucket that keeps a copy of every export.
// Archiving is disabled while Endpoint is empty.
type ArchiveConfig struct {
	Endpoint  string `mapstructure:"EXPORT_ARCHIVE_ENDPOINT"`
	AccessKey string `mapstructure:"EXPORT_ARCHIVE_ACCESS_KEY"`
	SecretKey string `mapstructure:"EXPORT_ARCHIVE_SECRET_KEY"`
	Bucket    string `mapstructure:"EXPORT_ARCHIVE_BUCKET" default:"reagent-exports"`
	UseSSL    bool   `mapstructure:"EXPORT_ARCHIVE_USE_SSL"`
}

// Enabled reports whether an archive endpoint is configured.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != ""
}

// Admins returns the trimmed, non-empty names in AdminActors.
func (c *AppConfig) Admins() []string {
	var out []string
	for _, name := range strings.Split(c.AdminActors, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the cross-field rules that struct tags cannot express.
func (c *AppConfig) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("postgres backend requires DB_HOST, DB_USER and DB_NAME")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.Archive.Enabled() && (c.Archive.AccessKey == "" || c.Archive.SecretKey == "") {
		return fmt.Errorf("export archive requires EXPORT_ARCHIVE_ACCESS_KEY and EXPORT_ARCHIVE_SECRET_KEY")
	}
	return nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App holds application configuration.
type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// Logger holds logger configuration.
type Logger struct {
	Level          string `mapstructure:"level"`
	Encoding       string `mapstructure:"encoding"`
	FilePath       string `mapstructure:"file_path"`
	FileMaxSizeMB  int    `mapstructure:"file_max_size_mb"`
	FileMaxBackups int    `mapstructure:"file_max_backups"`
	FileMaxAgeDays int    `mapstructure:"file_max_age_days"`
}

// Database holds database configuration.
type Database struct {
	// Driver is "postgres" or "sqlite".
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// Redis holds Redis configuration.
type Redis struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// API holds API server configuration.
type API struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// LoadOption customizes Load.
type LoadOption func(v *viper.Viper)

// WithDefaults registers default values. Keys use dotted notation.
// Registering a default also makes the key resolvable from the environment.
func WithDefaults(defaults map[string]interface{}) LoadOption {
	return func(v *viper.Viper) {
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
	}
}

// WithEnvAliases binds extra environment variable names to a key.
func WithEnvAliases(aliases map[string][]string) LoadOption {
	return func(v *viper.Viper) {
		for key, envs := range aliases {
			_ = v.BindEnv(append([]string{key}, envs...)...)
		}
	}
}

// Load loads configuration from a file into the given config struct.
// A .env file in the working directory is loaded into the environment first.
// Environment variables override file values; "a.b" maps to "A_B".
func Load(path string, config interface{}, opts ...LoadOption) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("Failed to load .env file", zap.Error(err))
	}

	v := viper.New()
	for _, opt := range opts {
		opt(v)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			zap.L().Warn("Failed to read config file, falling back to environment variables",
				zap.String("path", path), zap.Error(err))
		}
	}

	return v.Unmarshal(config)
}

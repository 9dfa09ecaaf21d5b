package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults for local development; the appliance packaging overrides the
// paths through the environment.
const (
	defaultPort            = 8080
	defaultUploadPath      = "./uploads"
	defaultDBPath          = "./photos.json"
	defaultLicensePath     = "./license.key"
	defaultFirstLaunchPath = "./first_launch.txt"
	defaultMaxSizeMiB      = 10.0
	defaultMaxFiles        = 50
	defaultBaseURL         = "http://localhost:8080/"
)

// Config represents the application configuration
type Config struct {
	Port            int     `mapstructure:"port"`
	UploadPath      string  `mapstructure:"upload_path"`       // Directory for uploaded images
	DBPath          string  `mapstructure:"db_path"`           // Photo record file
	LicensePath     string  `mapstructure:"license_path"`      // License key sidecar
	FirstLaunchPath string  `mapstructure:"first_launch_path"` // Trial anchor sidecar
	MaxSize         float64 `mapstructure:"max_size_mib"`      // Maximum file size in MiB
	MaxFiles        int     `mapstructure:"max_files"`         // Maximum files per upload request
	BaseURL         string  `mapstructure:"base_url"`
	DevMode         bool    `mapstructure:"dev_mode"` // Enables the trial test endpoints
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", defaultPort)
	v.SetDefault("upload_path", defaultUploadPath)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("license_path", defaultLicensePath)
	v.SetDefault("first_launch_path", defaultFirstLaunchPath)
	v.SetDefault("max_size_mib", defaultMaxSizeMiB)
	v.SetDefault("max_files", defaultMaxFiles)
	v.SetDefault("base_url", defaultBaseURL)
	v.SetDefault("dev_mode", false)

	// Environment overrides used by the appliance packaging
	v.BindEnv("port", "PORT")
	v.BindEnv("upload_path", "UPLOAD_DIR")
	v.BindEnv("db_path", "DB_PATH")
	v.BindEnv("license_path", "LICENSE_PATH")
	v.BindEnv("first_launch_path", "FIRST_LAUNCH_PATH")
	v.BindEnv("dev_mode", "DEV_MODE")

	return v
}

// LoadConfig loads a configuration file, applying defaults and environment
// overrides. The file must exist; use Default when running without one.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file format: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration built from defaults and environment
// overrides alone.
func Default() *Config {
	v := newViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Only a malformed environment value can end up here
		panic(err)
	}
	return &cfg
}

// MaxSizeToBytes converts the per-file limit to bytes.
func (c *Config) MaxSizeToBytes() int64 {
	return int64(c.MaxSize * 1024 * 1024)
}

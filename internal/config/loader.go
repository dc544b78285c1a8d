package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".greengrid.yaml"
	// GlobalConfigDir is the directory for global config, relative to home.
	GlobalConfigDir = ".config/greengrid"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. GREENGRID_SERVER_ADDR.
	EnvPrefix = "GREENGRID"
)

// Load reads config from the specified path, applying defaults and
// environment overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'greengrid init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// LoadOrDefault finds the config file for explicit (see Find) and loads it.
// When no file exists anywhere, defaults plus environment overrides are used.
// The returned path is empty in that case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .greengrid.yaml in current directory
// 3. .greengrid.yaml in parent directories (stops at git root or home)
// 4. ~/.config/greengrid/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	if path := findUpwards(cwd, home); path != "" {
		return path, nil
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// findUpwards looks for ConfigFileName in dir and its parents, stopping at
// the filesystem root, the home directory, or a git root.
func findUpwards(dir, home string) string {
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		if isGitRoot(dir) {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && parent == home) {
			return ""
		}
		dir = parent
	}
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// newViper returns a viper instance with every default registered, so
// AutomaticEnv can override any key.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers DefaultConfig with viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("grid.substations", d.Grid.Substations)
	v.SetDefault("grid.capacity_min", d.Grid.CapacityMin)
	v.SetDefault("grid.capacity_max", d.Grid.CapacityMax)
	v.SetDefault("grid.load_mean", d.Grid.LoadMean)
	v.SetDefault("grid.load_stddev", d.Grid.LoadStdDev)
	v.SetDefault("grid.load_floor", d.Grid.LoadFloor)
	v.SetDefault("grid.threshold", d.Grid.Threshold)
	v.SetDefault("grid.seed", d.Grid.Seed)

	v.SetDefault("session.max_readings", d.Session.MaxReadings)
	v.SetDefault("session.alert_display", d.Session.AlertDisplay)
	v.SetDefault("session.forecast_window", d.Session.ForecastWindow)

	v.SetDefault("dashboard.title", d.Dashboard.Title)
	v.SetDefault("dashboard.interval", d.Dashboard.Interval.String())
	v.SetDefault("dashboard.sample_on_interaction", d.Dashboard.SampleOnInteraction)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.session_ttl", d.Server.SessionTTL.String())
}

// parseConfig converts viper config to our Config struct.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your environment overrides"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and value types in "+where)
	}

	return cfg, nil
}

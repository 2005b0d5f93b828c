package flags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fleetwatch/fleetwatch/internal/files"
)

const (
	// Env vars
	EnvVarConfigFile  = "FLEETWATCH_CONFIG_FILE"
	EnvVarSecretsFile = "FLEETWATCH_SECRETS_FILE"
	EnvVarLogPath     = "FLEETWATCH_LOG_PATH"
	EnvVarLogLevel    = "FLEETWATCH_LOG_LEVEL"

	// Defaults
	DefaultConfigFile  = ".fleetwatch.toml"
	DefaultSecretsFile = "secrets.toml"
	DefaultLogPath     = ""
	DefaultLogLevel    = "info"

	// Flag names
	FlagNameConfigFile  = "config-file"
	FlagNameSecretsFile = "secrets-file"
	FlagNameLogPath     = "log-path"
	FlagNameLogLevel    = "log-level"
)

var (
	ConfigFile  string
	SecretsFile string
	LogPath     string
	LogLevel    string
)

// InitFlags registers the global flags on fs, seeding their defaults from environment variables.
func InitFlags(fs *pflag.FlagSet) error {
	initConfigFile(fs)
	if err := initSecretsFile(fs); err != nil {
		return err
	}
	initLogger(fs)

	return nil
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile
		}
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to config file")
}

// initSecretsFile resolves the secrets file, defaulting to a file inside the user's config directory.
func initSecretsFile(fs *pflag.FlagSet) error {
	if SecretsFile == "" {
		env := strings.TrimSpace(os.Getenv(EnvVarSecretsFile))
		if env != "" && env != DefaultSecretsFile {
			SecretsFile = env
		} else {
			dir, err := files.UserSpecificConfigDir()
			if err != nil {
				return err
			}
			SecretsFile = filepath.Join(dir, DefaultSecretsFile)
		}
	}
	fs.StringVar(&SecretsFile, FlagNameSecretsFile, SecretsFile, "path to secrets file holding management credentials")

	return nil
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for fleetwatch logs (trace, debug, info, warn, error, off)")
}

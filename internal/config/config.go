package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/bashhack/runguard/internal/constants"
	"github.com/bashhack/runguard/internal/errors"
	"github.com/bashhack/runguard/internal/runguard"
)

const (
	// DefaultTimeout for semaphore waits; zero waits until the semaphore is free
	DefaultTimeout = time.Duration(0)

	// configFileName is looked up under $XDG_CONFIG_HOME/runguard
	configFileName = "config.toml"
)

// Config holds all runguard application settings
type Config struct {
	// Guard configuration
	Key     string
	Dir     string
	Timeout time.Duration

	// User experience
	Verbose bool

	// Debugging
	Debug   bool
	LogFile string

	// ConfigFile is the TOML file settings were read from, if any
	ConfigFile string

	// IdentityPID overrides the PID the guard claims with (test builds only)
	IdentityPID int

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// fileConfig mirrors the TOML layout; nil fields were absent from the file
type fileConfig struct {
	Key     *string `toml:"key"`
	Dir     *string `toml:"dir"`
	Timeout *string `toml:"timeout"`
	Verbose *bool   `toml:"verbose"`
	Debug   *bool   `toml:"debug"`
	LogFile *string `toml:"log_file"`
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Key:     "",
		Dir:     "",
		Timeout: DefaultTimeout,
		Verbose: true,
		Debug:   false,
		LogFile: "",

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/runguard/config.toml, falling
// back to ~/.config when XDG_CONFIG_HOME is unset
func DefaultConfigFile() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, constants.AppName, configFileName)
}

// LoadFromFile updates config from a TOML file. A missing file is an error
// only when required is set; unknown keys are always rejected.
func (c *Config) LoadFromFile(path string, required bool) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.NewConfigError("config", path, errors.Wrapf(errors.ErrInvalidConfiguration, "cannot read config file: %v", err))
	}

	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return errors.NewConfigError("config", path, errors.Wrapf(errors.ErrInvalidConfiguration, "failed to parse config file: %v", err))
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.NewConfigError("config", path, errors.Wrapf(errors.ErrInvalidConfiguration, "unknown keys in config file: %s", strings.Join(keys, ", ")))
	}

	if fc.Key != nil {
		c.Key = *fc.Key
	}
	if fc.Dir != nil {
		c.Dir = *fc.Dir
	}
	if fc.Timeout != nil {
		timeout, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return errors.NewConfigError("timeout", *fc.Timeout, errors.Wrapf(errors.ErrInvalidConfiguration, "invalid duration in %s: %v", path, err))
		}
		c.Timeout = timeout
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.LogFile != nil {
		c.LogFile = *fc.LogFile
	}

	c.ConfigFile = path
	return nil
}

// LoadFromEnvironment updates config from RUNGUARD_* environment variables
func (c *Config) LoadFromEnvironment() {
	c.Key = getEnvString("KEY", c.Key)
	c.Dir = getEnvString("DIR", c.Dir)
	c.Timeout = getEnvDuration("TIMEOUT", c.Timeout)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.LogFile = getEnvString("LOG_FILE", c.LogFile)
}

// SetupFlags defines the command-line flags that override config values.
// Values are copied into the config by ApplyFlags once the set is parsed.
func (c *Config) SetupFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to TOML config file (default: ~/.config/runguard/config.toml)")
	fs.StringP("key", "k", c.Key, "Key shared by every instance that must not run concurrently")
	fs.String("dir", c.Dir, "Directory for the semaphore and segment files (default: /dev/shm or the temp dir)")
	fs.Duration("timeout", c.Timeout, "How long to wait for the semaphore (0 waits indefinitely)")
	fs.BoolP("quiet", "q", !c.Verbose, "Hide informational messages")
	fs.Bool("debug", c.Debug, "Enable debug logging")
	fs.String("log-file", c.LogFile, "Path to log file (default: ~/.local/share/runguard/logs/runguard-{key-hash}.log)")

	// Add test-specific flags if we're in a test build
	// This calls the appropriate function based on build tags
	// or the RUNGUARD_TESTING environment variable
	c.SetupTestFlags(fs)
}

// ConfigFlag returns the config file named on the command line, if any
func ConfigFlag(fs *pflag.FlagSet) string {
	if !fs.Changed("config") {
		return ""
	}
	path, _ := fs.GetString("config")
	return path
}

// ApplyFlags copies every flag the user set explicitly into the config
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error

	if fs.Changed("key") {
		if c.Key, err = fs.GetString("key"); err != nil {
			return flagError("key", err)
		}
	}
	if fs.Changed("dir") {
		if c.Dir, err = fs.GetString("dir"); err != nil {
			return flagError("dir", err)
		}
	}
	if fs.Changed("timeout") {
		if c.Timeout, err = fs.GetDuration("timeout"); err != nil {
			return flagError("timeout", err)
		}
	}
	if fs.Changed("quiet") {
		quiet, err := fs.GetBool("quiet")
		if err != nil {
			return flagError("quiet", err)
		}
		// -quiet means Verbose=false
		c.Verbose = !quiet
	}
	if fs.Changed("debug") {
		if c.Debug, err = fs.GetBool("debug"); err != nil {
			return flagError("debug", err)
		}
	}
	if fs.Changed("log-file") {
		if c.LogFile, err = fs.GetString("log-file"); err != nil {
			return flagError("log-file", err)
		}
	}

	return c.applyTestFlags(fs)
}

// Load resolves the full configuration for a parsed flag set: config file,
// then environment, then explicit flags. Each source overrides the previous.
func (c *Config) Load(fs *pflag.FlagSet) error {
	path := ConfigFlag(fs)
	required := path != ""
	if path == "" {
		path = getEnvString("CONFIG", "")
		required = path != ""
	}
	if path == "" {
		path = DefaultConfigFile()
	}

	if err := c.LoadFromFile(path, required); err != nil {
		return err
	}
	c.LoadFromEnvironment()
	return c.ApplyFlags(fs)
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	c.Key = strings.TrimSpace(c.Key)
	if c.Key == "" {
		return errors.NewConfigError("key", c.Key, errors.Wrap(errors.ErrInvalidConfiguration, "a key is required (use --key or RUNGUARD_KEY)"))
	}

	if c.Timeout < 0 {
		return errors.NewConfigError("timeout", c.Timeout,
			errors.Wrapf(errors.ErrInvalidConfiguration, "invalid timeout: %s (must not be negative)", c.Timeout))
	}

	if c.IdentityPID < 0 {
		return errors.NewConfigError("identity-pid", c.IdentityPID, errors.Wrap(errors.ErrInvalidConfiguration, "identity PID must not be negative"))
	}

	if c.Dir == "" {
		c.Dir = runguard.DefaultDir()
	}

	absDir, err := filepath.Abs(c.Dir)
	if err != nil {
		return errors.NewConfigError("dir", c.Dir, errors.Wrapf(errors.ErrInvalidConfiguration, "failed to resolve absolute path: %v", err))
	}
	c.Dir = absDir

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			// Default XDG data home if not set
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				// Fallback to the temp directory if home dir can't be determined
				logDir = os.TempDir()
			}
		}

		keyHash := fmt.Sprintf("%x", sha256OfString(c.Key)[:8])

		runguardLogDir := filepath.Join(logDir, constants.AppName, "logs")
		c.LogFile = filepath.Join(runguardLogDir, fmt.Sprintf("%s-%s.log", constants.AppName, keyHash))
	}

	return nil
}

func flagError(name string, err error) error {
	return errors.NewConfigError(name, nil, errors.Wrapf(errors.ErrInvalidConfiguration, "failed to read flag --%s: %v", name, err))
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(constants.EnvPrefix + key); exists {
		return value
	}
	return defaultValue
}

// getEnvDuration returns an environment variable as a duration or a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(constants.EnvPrefix + key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(constants.EnvPrefix + key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}

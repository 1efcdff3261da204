package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/brainstein/loghound/internal/analyze"
)

const (
	DefaultConfigDir  = ".loghound"
	DefaultConfigFile = "config.yaml"
	DefaultCodesFile  = "codes.yaml"
)

// Config is the immutable value set one run operates on. Every component
// receives what it needs explicitly; nothing reads ambient state.
type Config struct {
	BasePath    string   `mapstructure:"base_path"`
	Extensions  []string `mapstructure:"extensions"`
	LogTypes    []string `mapstructure:"log_types"`
	ReportDir   string   `mapstructure:"report_dir"`
	Verbose     string   `mapstructure:"verbose"`
	Search      []string `mapstructure:"search"`
	IPThreshold int      `mapstructure:"ip_suspicious_threshold"`
	TopLimit    int      `mapstructure:"top_limit"`
	CodesFile   string   `mapstructure:"codes_file"`

	Retention RetentionConfig `mapstructure:"retention"`
	SFTP      SFTPConfig      `mapstructure:"sftp"`

	ConfigDir string `mapstructure:"-"`
}

// RetentionConfig controls local corpus pruning during fetch.
type RetentionConfig struct {
	Days int `mapstructure:"days"`
}

// SFTPConfig describes the remote log server for the fetch command.
// Password may be left empty and supplied via LOGHOUND_SFTP_PASSWORD or an
// interactive prompt.
type SFTPConfig struct {
	Host              string   `mapstructure:"host"`
	Port              int      `mapstructure:"port"`
	User              string   `mapstructure:"user"`
	Password          string   `mapstructure:"password"`
	RemoteBase        string   `mapstructure:"remote_base"`
	Folders           []string `mapstructure:"folders"`
	FreshGuardMinutes int      `mapstructure:"fresh_guard_minutes"`
	MaxRetries        int      `mapstructure:"max_retries"`
	RetryDelaySeconds int      `mapstructure:"retry_delay_seconds"`
}

// Level returns the parsed console verbosity.
func (c *Config) Level() (analyze.Level, error) {
	return analyze.ParseLevel(c.Verbose)
}

// Load reads configuration from cfgFile, or from ~/.loghound/config.yaml
// when cfgFile is empty. A missing file is not an error: defaults apply,
// matching the rest of the tool's run-with-what-you-have behavior.
// Environment variables prefixed LOGHOUND_ override file values.
func Load(cfgFile string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Join(homeDir, DefaultConfigDir)

	v := viper.New()
	setDefaults(v, configDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LOGHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file: run on defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ConfigDir = configDir

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("base_path", filepath.Join(configDir, "logs"))
	v.SetDefault("extensions", []string{".log", ".txt", ".csv"})
	v.SetDefault("log_types", []string{"ALL"})
	v.SetDefault("report_dir", filepath.Join(configDir, "reports"))
	v.SetDefault("verbose", "ERROR")
	v.SetDefault("ip_suspicious_threshold", 50)
	v.SetDefault("top_limit", 10)
	v.SetDefault("codes_file", filepath.Join(configDir, DefaultCodesFile))
	v.SetDefault("retention.days", 2)
	// Empty defaults so environment overrides bind for keys absent from
	// the config file (viper only consults env for keys it knows about).
	v.SetDefault("sftp.host", "")
	v.SetDefault("sftp.user", "")
	v.SetDefault("sftp.password", "")
	v.SetDefault("sftp.folders", []string{})
	v.SetDefault("search", []string{})
	v.SetDefault("sftp.port", 22)
	v.SetDefault("sftp.remote_base", "/Logs")
	v.SetDefault("sftp.fresh_guard_minutes", 3)
	v.SetDefault("sftp.max_retries", 3)
	v.SetDefault("sftp.retry_delay_seconds", 2)
}

func (c *Config) validate() error {
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("verbose: %w", err)
	}
	if c.IPThreshold < 1 {
		return fmt.Errorf("ip_suspicious_threshold must be positive, got %d", c.IPThreshold)
	}
	if c.TopLimit < 1 {
		return fmt.Errorf("top_limit must be positive, got %d", c.TopLimit)
	}
	if c.Retention.Days < 0 {
		return fmt.Errorf("retention.days must not be negative, got %d", c.Retention.Days)
	}
	for _, lt := range c.LogTypes {
		switch strings.ToUpper(lt) {
		case "ALL", "CL", "EX", "TED6":
		default:
			return fmt.Errorf("unknown log type %q (want ALL, CL, EX, or TED6)", lt)
		}
	}
	return nil
}

// EnsureDirs creates the config and report directories when absent.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.ConfigDir, c.ReportDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return nil
}

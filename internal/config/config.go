// Package config resolves moodlog settings from defaults, a YAML config file,
// MOODLOG_* environment variables (a .env file is loaded first when present)
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/domain/sentiment"
)

// EnvPrefix is prepended to every environment variable name: http.port is
// read from MOODLOG_HTTP_PORT.
const EnvPrefix = "MOODLOG"

// DirName is the data directory created under the user's home.
const DirName = ".moodlog"

// FileName is the config file inside the data directory.
const FileName = "config.yaml"

// Config is the resolved configuration.
type Config struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	DBPath     string `yaml:"db_path,omitempty" mapstructure:"db_path"` // default: <data_dir>/moodlog.db
	Journal    string `yaml:"journal" mapstructure:"journal"`
	Dictionary string `yaml:"dictionary,omitempty" mapstructure:"dictionary"` // file or dir; empty = built-in lexicon
	Timezone   string `yaml:"timezone" mapstructure:"timezone"`

	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Sentiment SentimentConfig `yaml:"sentiment" mapstructure:"sentiment"`
	Series    SeriesConfig    `yaml:"series" mapstructure:"series"`
}

// HTTPConfig controls the local JSON API.
type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Port int    `yaml:"port" mapstructure:"port"`
	// WatchDictionary reloads a user dictionary file when it changes.
	WatchDictionary bool `yaml:"watch_dictionary" mapstructure:"watch_dictionary"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
	File   string `yaml:"file,omitempty" mapstructure:"file"`
}

// ExtractConfig mirrors keyword.Options plus the extractor choice.
type ExtractConfig struct {
	CaseSensitive   bool `yaml:"case_sensitive" mapstructure:"case_sensitive"`
	ExactMatch      bool `yaml:"exact_match" mapstructure:"exact_match"`
	MinTokenLength  int  `yaml:"min_token_length" mapstructure:"min_token_length"`
	MaxEditDistance int  `yaml:"max_edit_distance" mapstructure:"max_edit_distance"` // > 0 selects fuzzy matching
	Indexed         bool `yaml:"indexed" mapstructure:"indexed"`
}

// SentimentConfig mirrors sentiment.Options.
type SentimentConfig struct {
	PositiveThreshold     float64 `yaml:"positive_threshold" mapstructure:"positive_threshold"`
	NegativeThreshold     float64 `yaml:"negative_threshold" mapstructure:"negative_threshold"`
	VeryPositiveThreshold float64 `yaml:"very_positive_threshold" mapstructure:"very_positive_threshold"`
	VeryNegativeThreshold float64 `yaml:"very_negative_threshold" mapstructure:"very_negative_threshold"`
	Normalize             bool    `yaml:"normalize" mapstructure:"normalize"`
}

// SeriesConfig controls the statistics views.
type SeriesConfig struct {
	DefaultDays int `yaml:"default_days" mapstructure:"default_days"`
}

// KeywordOptions converts the extract settings.
func (c ExtractConfig) KeywordOptions() keyword.Options {
	opts := keyword.Options{
		CaseSensitive:  c.CaseSensitive,
		ExactMatch:     c.ExactMatch,
		MinTokenLength: c.MinTokenLength,
	}
	if c.MaxEditDistance > 0 {
		opts.Policy = keyword.EditDistance{Max: c.MaxEditDistance}
	}
	return opts
}

// Options converts the sentiment settings.
func (c SentimentConfig) Options() sentiment.Options {
	return sentiment.Options{
		PositiveThreshold:     c.PositiveThreshold,
		NegativeThreshold:     c.NegativeThreshold,
		VeryPositiveThreshold: c.VeryPositiveThreshold,
		VeryNegativeThreshold: c.VeryNegativeThreshold,
		Normalize:             c.Normalize,
	}
}

// Location resolves Timezone. Empty means UTC; "Local" is the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Extract.MinTokenLength < 0 || c.Extract.MaxEditDistance < 0 {
		errs = append(errs, errors.New("extract: lengths must not be negative"))
	}
	s := c.Sentiment
	if !(s.VeryNegativeThreshold <= s.NegativeThreshold && s.NegativeThreshold < s.PositiveThreshold && s.PositiveThreshold <= s.VeryPositiveThreshold) {
		errs = append(errs, fmt.Errorf("sentiment thresholds out of order: %v <= %v < %v <= %v",
			s.VeryNegativeThreshold, s.NegativeThreshold, s.PositiveThreshold, s.VeryPositiveThreshold))
	}
	if c.Series.DefaultDays <= 0 {
		errs = append(errs, fmt.Errorf("series.default_days %d must be positive", c.Series.DefaultDays))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DefaultDataDir returns ~/.moodlog.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// setDefaults registers every key so environment variables are picked up by
// Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper, dataDir string) {
	d := sentiment.DefaultOptions()
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("journal", "default")
	v.SetDefault("dictionary", "")
	v.SetDefault("timezone", "")
	v.SetDefault("http.addr", "127.0.0.1")
	v.SetDefault("http.port", 8417)
	v.SetDefault("http.watch_dictionary", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("extract.case_sensitive", false)
	v.SetDefault("extract.exact_match", false)
	v.SetDefault("extract.min_token_length", 1)
	v.SetDefault("extract.max_edit_distance", 0)
	v.SetDefault("extract.indexed", true)
	v.SetDefault("sentiment.positive_threshold", d.PositiveThreshold)
	v.SetDefault("sentiment.negative_threshold", d.NegativeThreshold)
	v.SetDefault("sentiment.very_positive_threshold", d.VeryPositiveThreshold)
	v.SetDefault("sentiment.very_negative_threshold", d.VeryNegativeThreshold)
	v.SetDefault("sentiment.normalize", d.Normalize)
	v.SetDefault("series.default_days", 14)
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"data_dir":   "data-dir",
	"db_path":    "db",
	"journal":    "journal",
	"dictionary": "dict",
	"timezone":   "tz",
	"http.addr":  "addr",
	"http.port":  "port",
	"log.level":  "log-level",
	"log.format": "log-format",
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// File is an explicit config file. It must exist. When empty,
	// <data dir>/config.yaml is read if present.
	File string
	// EnvFile is a dotenv file loaded into the process environment before
	// reading MOODLOG_* variables. Missing files are ignored. Empty means
	// ".env" in the working directory.
	EnvFile string
	// Flags, when set, supplies overrides for the keys in flagKeys. Only
	// flags the user actually set take effect.
	Flags *pflag.FlagSet
}

// Load resolves the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// data_dir decides where the default config file lives, so resolve it
	// before reading the file.
	dataDir := DefaultDataDir()
	if d := v.GetString("data_dir"); d != "" {
		dataDir = d
	}
	setDefaults(v, dataDir)

	file := opts.File
	if file == "" {
		candidate := filepath.Join(dataDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file, environment or flags.
func Default() *Config {
	v := viper.New()
	setDefaults(v, DefaultDataDir())
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set updates one key in the config file at path, creating the file if
// needed. Only the keys already in the file plus key are written.
func Set(path, key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Keys lists every config key in dotted form.
func Keys() []string {
	v := viper.New()
	setDefaults(v, "")
	return v.AllKeys()
}

func isKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

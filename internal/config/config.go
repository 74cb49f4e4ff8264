package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags, files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	StatsBaseURL         string            `mapstructure:"stats_base_url"`
	Country              string            `mapstructure:"country"`
	Region               string            `mapstructure:"region"`
	MissingRegion        string            `mapstructure:"missing_region"`
	OutputFormat         string            `mapstructure:"output_format"`
	Color                string            `mapstructure:"color"`
	RequestHeaders       map[string]string `mapstructure:"request_headers"`
	HTTPTimeoutSeconds   int64             `mapstructure:"http_timeout_seconds"`
	HTTPTimeout          time.Duration     `mapstructure:"-"`
	WatchIntervalSeconds int64             `mapstructure:"watch_interval"`
	WatchInterval        time.Duration     `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	HistoryTTLSeconds      int64         `mapstructure:"history_ttl_seconds"`
	HistoryCleanupSeconds  int64         `mapstructure:"history_cleanup_interval_seconds"`
	HistoryLimit           int           `mapstructure:"history_limit"`
	HistoryTTL             time.Duration `mapstructure:"-"`
	HistoryCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
}

// Accepted values for the enumerated settings.
const (
	MissingRegionError  = "error"
	MissingRegionWarn   = "warn"
	MissingRegionIgnore = "ignore"

	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputCSV   = "csv"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const envPrefix = "covid_board"

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":       "log_level",
	"base-url":        "stats_base_url",
	"country":         "country",
	"region":          "region",
	"missing-region":  "missing_region",
	"output":          "output_format",
	"color":           "color",
	"header":          "request_headers",
	"timeout":         "http_timeout_seconds",
	"watch":           "watch_interval",
	"storage-type":    "storage_type",
	"bbolt-path":      "bbolt_path",
	"history-limit":   "history_limit",
	"publishers-file": "publishers_file",
}

// RegisterFlags declares the command-line overrides understood by Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("base-url", "", "statistics endpoint without query")
	fs.String("country", "", "country whose regions are fetched")
	fs.StringP("region", "r", "", "region record to render")
	fs.String("missing-region", "", "behaviour for an unknown region (error, warn, ignore)")
	fs.StringP("output", "o", "", "output format (table, json, yaml, csv)")
	fs.String("color", "", "colorize table output (auto, always, never)")
	fs.StringToStringP("header", "H", nil, "extra request header as Name=Value (repeatable)")
	fs.Int64("timeout", 0, "HTTP timeout in seconds, 0 disables")
	fs.Int64("watch", 0, "refresh interval in seconds, 0 renders once")
	fs.String("storage-type", "", "history storage (none, bbolt)")
	fs.String("bbolt-path", "", "history database path")
	fs.Int("history-limit", 0, "number of history entries to list")
	fs.String("publishers-file", "", "publishers YAML/JSON file, empty disables publishing")
}

// Load reads configuration from flags, environment variables and configs/.env.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "covid-board")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("stats_base_url", "https://covid-api.mmediagroup.fr/v1/cases")
	v.SetDefault("country", "Germany")
	v.SetDefault("region", "All")
	v.SetDefault("missing_region", MissingRegionError)
	v.SetDefault("output_format", OutputTable)
	v.SetDefault("color", ColorAuto)
	v.SetDefault("request_headers", map[string]string{})
	v.SetDefault("http_timeout_seconds", 0)
	v.SetDefault("watch_interval", 0)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/history.db")
	v.SetDefault("history_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("history_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("history_limit", 20)
	v.SetDefault("publishers_file", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		headersHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Country = strings.TrimSpace(c.Country)
	c.Region = strings.TrimSpace(c.Region)
	c.MissingRegion = strings.ToLower(strings.TrimSpace(c.MissingRegion))
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.StorageType = strings.ToLower(strings.TrimSpace(c.StorageType))

	if c.Country == "" {
		return errors.New("invalid country (must not be empty)")
	}
	if c.Region == "" {
		return errors.New("invalid region (must not be empty)")
	}
	if _, err := c.StatsURL(); err != nil {
		return err
	}
	if !oneOf(c.MissingRegion, MissingRegionError, MissingRegionWarn, MissingRegionIgnore) {
		return fmt.Errorf("invalid missing_region %q (expected error, warn or ignore)", c.MissingRegion)
	}
	if !oneOf(c.OutputFormat, OutputTable, OutputJSON, OutputYAML, OutputCSV) {
		return fmt.Errorf("invalid output_format %q (expected table, json, yaml or csv)", c.OutputFormat)
	}
	if !oneOf(c.Color, ColorAuto, ColorAlways, ColorNever) {
		return fmt.Errorf("invalid color %q (expected auto, always or never)", c.Color)
	}

	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be zero or positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.WatchIntervalSeconds < 0 {
		return fmt.Errorf("invalid watch_interval (must be zero or positive seconds)")
	}
	c.WatchInterval = time.Duration(c.WatchIntervalSeconds) * time.Second

	if c.HistoryTTLSeconds <= 0 {
		return fmt.Errorf("invalid history_ttl_seconds (must be positive seconds)")
	}
	if c.HistoryCleanupSeconds <= 0 {
		return fmt.Errorf("invalid history_cleanup_interval_seconds (must be positive seconds)")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("invalid history_limit (must be positive)")
	}
	c.HistoryTTL = time.Duration(c.HistoryTTLSeconds) * time.Second
	c.HistoryCleanupInterval = time.Duration(c.HistoryCleanupSeconds) * time.Second

	if c.RequestHeaders == nil {
		c.RequestHeaders = map[string]string{}
	}
	return nil
}

// StatsURL returns the statistics endpoint with the country query applied.
func (c *Config) StatsURL() (string, error) {
	u, err := url.Parse(strings.TrimSpace(c.StatsBaseURL))
	if err != nil {
		return "", fmt.Errorf("invalid stats_base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid stats_base_url %q (absolute URL required)", c.StatsBaseURL)
	}
	q := u.Query()
	q.Set("country", c.Country)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// headersHook decodes "Name=Value,Other=Value" strings (as found in the
// environment) into header maps.
func headersHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(map[string]string{})
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != target {
			return data, nil
		}
		return ParseHeaders(data.(string))
	}
}

// ParseHeaders parses a comma separated list of Name=Value pairs.
func ParseHeaders(raw string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (expected Name=Value)", pair)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

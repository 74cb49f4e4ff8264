package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := cfg.StatsURL()
	if err != nil {
		t.Fatalf("StatsURL: %v", err)
	}
	if got != "https://covid-api.mmediagroup.fr/v1/cases?country=Germany" {
		t.Fatalf("unexpected stats url %q", got)
	}
	if cfg.Region != "All" || cfg.OutputFormat != OutputTable || cfg.MissingRegion != MissingRegionError {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.HTTPTimeout != 0 || cfg.WatchInterval != 0 {
		t.Fatalf("expected no timeout and single run, got %v / %v", cfg.HTTPTimeout, cfg.WatchInterval)
	}
	if len(cfg.RequestHeaders) != 0 {
		t.Fatalf("expected no default request headers, got %v", cfg.RequestHeaders)
	}
	if cfg.HistoryTTL != 30*24*time.Hour {
		t.Fatalf("unexpected history ttl %v", cfg.HistoryTTL)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("COVID_BOARD_REGION", "Bayern")
	t.Setenv("COVID_BOARD_REQUEST_HEADERS", "X-Test=1, Accept=application/json")
	t.Setenv("COVID_BOARD_WATCH_INTERVAL", "60")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != "Bayern" {
		t.Fatalf("region = %q", cfg.Region)
	}
	if cfg.RequestHeaders["X-Test"] != "1" || cfg.RequestHeaders["Accept"] != "application/json" {
		t.Fatalf("unexpected headers %v", cfg.RequestHeaders)
	}
	if cfg.WatchInterval != time.Minute {
		t.Fatalf("watch interval = %v", cfg.WatchInterval)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"-r", "Berlin", "-H", "X-Test=1", "-o", "json", "--country", "Austria"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != "Berlin" || cfg.OutputFormat != OutputJSON {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if len(cfg.RequestHeaders) != 1 || cfg.RequestHeaders["X-Test"] != "1" {
		t.Fatalf("unexpected headers %v", cfg.RequestHeaders)
	}
	got, _ := cfg.StatsURL()
	if got != "https://covid-api.mmediagroup.fr/v1/cases?country=Austria" {
		t.Fatalf("unexpected stats url %q", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"COVID_BOARD_MISSING_REGION":       "explode",
		"COVID_BOARD_OUTPUT_FORMAT":        "xml",
		"COVID_BOARD_STATS_BASE_URL":       "not a url",
		"COVID_BOARD_HTTP_TIMEOUT_SECONDS": "-1",
		"COVID_BOARD_HISTORY_LIMIT":        "0",
	}
	for env, value := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			if _, err := Load(nil); err == nil {
				t.Fatalf("expected error for %s=%s", env, value)
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got, err := ParseHeaders("X-A=1,,X-B = two ")
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	if len(got) != 2 || got["X-A"] != "1" || got["X-B"] != "two" {
		t.Fatalf("unexpected headers %v", got)
	}
	if _, err := ParseHeaders("novalue"); err == nil {
		t.Fatalf("expected error for pair without '='")
	}
}

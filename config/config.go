package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser   BrowserConfig
	Inspector InspectorConfig
	Log       LogConfig
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL used for remote targets.
	Proxy string

	// Stealth injects anti-bot-detection evasions before navigation.
	// Only useful when the target is a remote URL.
	Stealth bool // default: false
}

// InspectorConfig controls the inspection run.
type InspectorConfig struct {
	// Target is the dashboard document to inspect: a local path or an
	// http(s) URL.
	Target string // default: "unified_asi_monitor.html"

	// Output is the report file path, overwritten on every run.
	Output string // default: "monitor_check_report.json"

	// NavTimeout bounds navigation alone; settle windows are separate.
	NavTimeout time.Duration // default: 30s

	// InitialSettle is the wait before the first metric snapshot.
	InitialSettle time.Duration // default: 1s

	// FinalSettle is the additional wait before the second snapshot and
	// the probe pass (total settle = InitialSettle + FinalSettle).
	FinalSettle time.Duration // default: 7s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:   envBoolOr("DASHPROBE_HEADLESS", true),
			NoSandbox:  envBoolOr("DASHPROBE_NO_SANDBOX", false),
			BrowserBin: os.Getenv("DASHPROBE_BROWSER_BIN"),
			Proxy:      os.Getenv("DASHPROBE_PROXY"),
			Stealth:    envBoolOr("DASHPROBE_STEALTH", false),
		},
		Inspector: InspectorConfig{
			Target:        envOr("DASHPROBE_TARGET", "unified_asi_monitor.html"),
			Output:        envOr("DASHPROBE_OUTPUT", "monitor_check_report.json"),
			NavTimeout:    envDurationOr("DASHPROBE_NAV_TIMEOUT", 30*time.Second),
			InitialSettle: envDurationOr("DASHPROBE_INITIAL_SETTLE", time.Second),
			FinalSettle:   envDurationOr("DASHPROBE_FINAL_SETTLE", 7*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("DASHPROBE_LOG_LEVEL", "info"),
			Format: envOr("DASHPROBE_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

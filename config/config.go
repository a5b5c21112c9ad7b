package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyRegistryBaseURL     = "CRATE_REGISTRY_BASE_URL"
	KeyHostAddress         = "HOST_ADDRESS"
	KeyHostPort            = "HOST_PORT"
	KeyHostBasePath        = "HOST_BASE_PATH"
	KeyRegistryTimeout     = "REGISTRY_TIMEOUT"
	KeyCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	KeyMetricsExclude      = "METRICS_EXCLUDE"
	KeyMetricsExcludeRegex = "METRICS_EXCLUDE_REGEX"
	KeySQLitePath          = "SQLITE_PATH"
	KeyLookupRetention     = "LOOKUP_RETENTION"
	KeyLookupPruneSchedule = "LOOKUP_PRUNE_SCHEDULE"
	KeyLogLevel            = "LOG_LEVEL"
)

const (
	DefaultRegistryBaseURL     = "https://crates.io"
	DefaultHostAddress         = "0.0.0.0"
	DefaultHostPort            = "8080"
	DefaultRegistryTimeout     = 10 * time.Second
	DefaultLookupRetention     = 7 * 24 * time.Hour
	DefaultLookupPruneSchedule = "@daily"
	DefaultLogLevel            = "info"

	UserAgent   = "crates-graph (https://github.com/agabani/rust-kata-002)"
	ServiceName = "crates-graph"
)

// Version is the release of this build, overridden with -ldflags "-X crates-graph/config.Version=...".
var Version = "0.1.0"

var (
	DefaultCORSAllowedOrigins  = []string{"*"}
	DefaultMetricsExclude      = []string{"/metrics"}
	DefaultMetricsExcludeRegex = []string{"^/health"}
)

type Config struct {
	RegistryBaseURL     string
	HostAddress         string
	HostPort            string
	HostBasePath        string
	RegistryTimeout     time.Duration
	CORSAllowedOrigins  []string
	MetricsExclude      []string
	MetricsExcludeRegex []string
	SQLitePath          string
	LookupRetention     time.Duration
	LookupPruneSchedule string
	LogLevel            string
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return c.HostAddress + ":" + c.HostPort
}

// SetDefaults registers every key with its default so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRegistryBaseURL, DefaultRegistryBaseURL)
	v.SetDefault(KeyHostAddress, DefaultHostAddress)
	v.SetDefault(KeyHostPort, DefaultHostPort)
	v.SetDefault(KeyHostBasePath, "")
	v.SetDefault(KeyRegistryTimeout, DefaultRegistryTimeout)
	v.SetDefault(KeyCORSAllowedOrigins, DefaultCORSAllowedOrigins)
	v.SetDefault(KeyMetricsExclude, DefaultMetricsExclude)
	v.SetDefault(KeyMetricsExcludeRegex, strings.Join(DefaultMetricsExcludeRegex, "\n"))
	v.SetDefault(KeySQLitePath, "")
	v.SetDefault(KeyLookupRetention, DefaultLookupRetention)
	v.SetDefault(KeyLookupPruneSchedule, DefaultLookupPruneSchedule)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
}

// New returns a viper instance reading the environment with all defaults set.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		RegistryBaseURL:     strings.TrimRight(v.GetString(KeyRegistryBaseURL), "/"),
		HostAddress:         v.GetString(KeyHostAddress),
		HostPort:            v.GetString(KeyHostPort),
		HostBasePath:        v.GetString(KeyHostBasePath),
		RegistryTimeout:     v.GetDuration(KeyRegistryTimeout),
		CORSAllowedOrigins:  splitList(v.GetStringSlice(KeyCORSAllowedOrigins)),
		MetricsExclude:      splitList(v.GetStringSlice(KeyMetricsExclude)),
		MetricsExcludeRegex: splitLines(v.GetString(KeyMetricsExcludeRegex)),
		SQLitePath:          v.GetString(KeySQLitePath),
		LookupRetention:     v.GetDuration(KeyLookupRetention),
		LookupPruneSchedule: v.GetString(KeyLookupPruneSchedule),
		LogLevel:            v.GetString(KeyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.RegistryBaseURL == "" {
		return fmt.Errorf("%s must not be empty", KeyRegistryBaseURL)
	}
	if _, err := strconv.ParseUint(c.HostPort, 10, 16); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyHostPort, c.HostPort, err)
	}
	if c.HostBasePath != "" {
		if !strings.HasPrefix(c.HostBasePath, "/") || strings.HasSuffix(c.HostBasePath, "/") {
			return fmt.Errorf("%s must start with '/' and not end with '/': %q", KeyHostBasePath, c.HostBasePath)
		}
	}
	if c.RegistryTimeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyRegistryTimeout)
	}
	for _, p := range c.MetricsExcludeRegex {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid %s pattern %q: %w", KeyMetricsExcludeRegex, p, err)
		}
	}
	if c.SQLitePath != "" && c.LookupRetention <= 0 {
		return fmt.Errorf("%s must be positive when %s is set", KeyLookupRetention, KeySQLitePath)
	}
	return nil
}

// splitList accepts both slice values and comma separated env values.
// Not used for regexes, which may contain commas and spaces.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// splitLines reads one regex per line.
func splitLines(in string) []string {
	var out []string
	for _, line := range strings.Split(in, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

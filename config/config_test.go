package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, DefaultRegistryBaseURL, cfg.RegistryBaseURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "", cfg.HostBasePath)
	assert.Equal(t, DefaultRegistryTimeout, cfg.RegistryTimeout)
	assert.Equal(t, []string{"/metrics"}, cfg.MetricsExclude)
	assert.Equal(t, []string{"^/health"}, cfg.MetricsExcludeRegex)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "", cfg.SQLitePath)
	assert.Equal(t, DefaultLookupPruneSchedule, cfg.LookupPruneSchedule)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(KeyRegistryBaseURL, "http://localhost:9000/")
	t.Setenv(KeyHostPort, "9090")
	t.Setenv(KeyHostBasePath, "/api")
	t.Setenv(KeyRegistryTimeout, "3s")
	t.Setenv(KeyMetricsExclude, "/metrics,/favicon.ico")
	t.Setenv(KeyMetricsExcludeRegex, "^/health\n^/debug\n")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.RegistryBaseURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "/api", cfg.HostBasePath)
	assert.Equal(t, 3*time.Second, cfg.RegistryTimeout)
	assert.Equal(t, []string{"/metrics", "/favicon.ico"}, cfg.MetricsExclude)
	assert.Equal(t, []string{"^/health", "^/debug"}, cfg.MetricsExcludeRegex)
}

func TestLoadRegexWithCommaAndSpace(t *testing.T) {
	t.Setenv(KeyMetricsExcludeRegex, "^/crate/[a-z]{1,3}$\n^/debug/[a-z]+ [0-9]+$")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, []string{`^/crate/[a-z]{1,3}$`, `^/debug/[a-z]+ [0-9]+$`}, cfg.MetricsExcludeRegex)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			RegistryBaseURL: DefaultRegistryBaseURL,
			HostPort:        DefaultHostPort,
			LookupRetention: time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty registry", mutate: func(c *Config) { c.RegistryBaseURL = "" }, wantErr: KeyRegistryBaseURL},
		{name: "bad port", mutate: func(c *Config) { c.HostPort = "http" }, wantErr: KeyHostPort},
		{name: "base path without slash", mutate: func(c *Config) { c.HostBasePath = "api" }, wantErr: KeyHostBasePath},
		{name: "base path trailing slash", mutate: func(c *Config) { c.HostBasePath = "/api/" }, wantErr: KeyHostBasePath},
		{name: "bad regex", mutate: func(c *Config) { c.MetricsExcludeRegex = []string{"(["} }, wantErr: KeyMetricsExcludeRegex},
		{
			name: "store without retention",
			mutate: func(c *Config) {
				c.SQLitePath = ":memory:"
				c.LookupRetention = 0
			},
			wantErr: KeyLookupRetention,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

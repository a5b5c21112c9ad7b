package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"crates-graph/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func givenChecks(statuses ...string) map[string][]Check {
	checks := map[string][]Check{}
	for i, s := range statuses {
		key := "check-" + strconv.Itoa(i%2)
		checks[key] = append(checks[key], Check{Status: s})
	}
	return checks
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string][]Check
		expected string
	}{
		{name: "none", checks: map[string][]Check{}, expected: StatusPass},
		{name: "nil", checks: nil, expected: StatusPass},
		{name: "unset status", checks: givenChecks(""), expected: StatusPass},
		{name: "pass", checks: givenChecks(StatusPass), expected: StatusPass},
		{name: "warn", checks: givenChecks(StatusWarn), expected: StatusWarn},
		{name: "warn among passes", checks: givenChecks(StatusPass, StatusWarn, StatusPass), expected: StatusWarn},
		{name: "fail", checks: givenChecks(StatusFail), expected: StatusFail},
		{
			name:     "fail among warns and passes",
			checks:   givenChecks(StatusPass, StatusWarn, StatusFail, StatusWarn, StatusPass),
			expected: StatusFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Status(tt.checks))
			assert.Equal(t, tt.expected, Envelope(tt.checks).Status)
		})
	}
}

func TestEnvelope(t *testing.T) {
	checks := map[string][]Check{"key": {{}}}

	health := Envelope(checks)

	assert.Equal(t, StatusPass, health.Status)
	assert.Equal(t, majorVersion(config.Version), health.Version)
	assert.Equal(t, config.Version, health.ReleaseID)
	assert.Len(t, health.Checks, 1)
	assert.Empty(t, health.Notes)
	assert.Empty(t, health.Output)
	assert.Nil(t, health.Links)
	assert.Empty(t, health.ServiceID)
	assert.Equal(t, "health of crates-graph service", health.Description)
}

func TestMajorVersion(t *testing.T) {
	assert.Equal(t, "0", majorVersion("0.1.0"))
	assert.Equal(t, "2", majorVersion("v2.3.4"))
	assert.Equal(t, "dev", majorVersion("dev"))
}

func TestUptimeChecker(t *testing.T) {
	now := time.Date(2018, 1, 17, 3, 36, 48, 0, time.UTC)
	start := now.Add(-1500 * time.Millisecond)

	check := UptimeChecker(now, start)

	assert.Empty(t, check.ComponentID)
	assert.Equal(t, "system", check.ComponentType)
	assert.Equal(t, "1.5", check.ObservedValue)
	assert.Equal(t, "s", check.ObservedUnit)
	assert.Equal(t, StatusPass, check.Status)
	assert.Nil(t, check.AffectedEndpoints)
	assert.Equal(t, "2018-01-17T03:36:48Z", check.Time)
	assert.Empty(t, check.Output)
	assert.Nil(t, check.Links)
	assert.Nil(t, check.AdditionalKeys)
}

func TestGet(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	h := &Handler{
		Start: now.Add(-time.Minute),
		Now:   func() time.Time { return now },
		Log:   logrus.New(),
	}

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentType, rr.Header().Get("Content-Type"))

	var body Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, StatusPass, body.Status)
	require.Len(t, body.Checks["uptime"], 1)
	assert.Equal(t, "60", body.Checks["uptime"][0].ObservedValue)
	assert.Equal(t, "2024-05-01T10:00:00Z", body.Checks["uptime"][0].Time)
}

type failingWriter struct {
	header http.Header
}

func (w *failingWriter) Header() http.Header { return w.header }
func (w *failingWriter) WriteHeader(int) {}
func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestGetLogsEncodeFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := &Handler{Start: time.Now(), Log: log}

	h.Get(&failingWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "encoding health response", hook.LastEntry().Message)
}

func TestProbe(t *testing.T) {
	for _, path := range []string{"/health/liveness", "/health/readiness"} {
		rr := httptest.NewRecorder()
		Probe(rr, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0, rr.Body.Len())
	}
}

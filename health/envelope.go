package health

import (
	"strings"

	"crates-graph/config"
)

func Envelope(checks map[string][]Check) Health {
	return Health{
		Status:      Status(checks),
		Version:     majorVersion(config.Version),
		ReleaseID:   config.Version,
		Checks:      checks,
		Description: "health of " + config.ServiceName + " service",
	}
}

// Status aggregates check statuses: fail beats warn beats pass.
func Status(checks map[string][]Check) string {
	status := StatusPass
	for _, list := range checks {
		for _, check := range list {
			switch check.Status {
			case StatusFail:
				return StatusFail
			case StatusWarn:
				status = StatusWarn
			}
		}
	}
	return status
}

func majorVersion(v string) string {
	v = strings.TrimPrefix(v, "v")
	major, _, _ := strings.Cut(v, ".")
	return major
}

package health

import (
	"strconv"
	"time"
)

func UptimeChecker(now, start time.Time) Check {
	return Check{
		ComponentType: "system",
		ObservedValue: strconv.FormatFloat(now.Sub(start).Seconds(), 'f', -1, 64),
		ObservedUnit:  "s",
		Status:        StatusPass,
		Time:          now.UTC().Format(time.RFC3339),
	}
}

package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const ContentType = "application/health+json"

type Handler struct {
	Start time.Time
	Now   func() time.Time
	Log   *logrus.Logger
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	checks := map[string][]Check{
		"uptime": {UptimeChecker(now, h.Start)},
	}

	w.Header().Set("Content-Type", ContentType)
	if err := json.NewEncoder(w).Encode(Envelope(checks)); err != nil {
		h.Log.WithError(err).Error("encoding health response")
	}
}

// Probe answers liveness and readiness checks with an empty 200.
func Probe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

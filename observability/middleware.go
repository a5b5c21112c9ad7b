package observability

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
)

// Exclusions lists request paths that are never instrumented. Exact entries
// are checked before the patterns.
type Exclusions struct {
	Exact    map[string]struct{}
	Patterns []*regexp.Regexp
}

func NewExclusions(exact, patterns []string) (Exclusions, error) {
	ex := Exclusions{Exact: make(map[string]struct{}, len(exact))}
	for _, p := range exact {
		ex.Exact[p] = struct{}{}
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return Exclusions{}, fmt.Errorf("compile exclusion pattern %q: %w", p, err)
		}
		ex.Patterns = append(ex.Patterns, re)
	}
	return ex, nil
}

func (e Exclusions) Excluded(path string) bool {
	if _, ok := e.Exact[path]; ok {
		return true
	}
	for _, re := range e.Patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Middleware counts and times every request whose path is not excluded.
func (m *Metrics) Middleware(ex Exclusions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if ex.Excluded(path) {
				next.ServeHTTP(w, r)
				return
			}

			m.requestCount.WithLabelValues(path).Inc()
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := strconv.Itoa(statusOf(ww))
			m.responseDuration.WithLabelValues(path, status).Observe(time.Since(start).Seconds())
			m.responseCount.WithLabelValues(path, status).Inc()
		})
	}
}

// statusOf treats a handler that never called WriteHeader as 200.
func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

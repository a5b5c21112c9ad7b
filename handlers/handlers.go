package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crates-graph/graph"
	"crates-graph/registry"
	"crates-graph/storage"

	"github.com/sirupsen/logrus"
)

type Registry interface {
	GetCrate(ctx context.Context, name string) (*registry.CrateResponse, error)
	GetCrateDependencies(ctx context.Context, name, version string) (*registry.DependenciesResponse, error)
}

type LookupStore interface {
	RecordLookup(ctx context.Context, l storage.Lookup) (int64, error)
	ListLookups(ctx context.Context, name string, limit int) ([]storage.Lookup, error)
}

type Handler struct {
	Registry Registry
	// Lookups is optional; when nil nothing is recorded.
	Lookups LookupStore
	Log     *logrus.Logger
}

type LookupsResult struct {
	Data []storage.Lookup `json:"data"`
}

// requireQuery returns the named query values in order, writing a 400 for the
// first one that is absent. Present but empty values are accepted.
func (h *Handler) requireQuery(w http.ResponseWriter, r *http.Request, fields ...string) ([]string, bool) {
	query := r.URL.Query()
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		if !query.Has(f) {
			h.missingField(w, f)
			return nil, false
		}
		values = append(values, query.Get(f))
	}
	return values, true
}

func (h *Handler) DependencyGraph(w http.ResponseWriter, r *http.Request) {
	params, ok := h.requireQuery(w, r, "name", "version")
	if !ok {
		return
	}
	name, version := params[0], params[1]

	deps, err := h.Registry.GetCrateDependencies(r.Context(), name, version)
	if err != nil {
		h.Log.WithFields(logrus.Fields{
			"name":    name,
			"version": version,
		}).WithError(err).Error("fetching crate dependencies")
		h.registryError(w, err)
		return
	}

	root := graph.Build(name, version, deps.Dependencies)
	h.recordLookup(r.Context(), name, version, len(deps.Dependencies))

	if err := writeJSON(w, http.StatusOK, graph.QueryResult{Data: []graph.Node{root}}); err != nil {
		h.Log.WithError(err).Error("encoding dependency graph response")
	}
}

func (h *Handler) recordLookup(ctx context.Context, name, version string, dependencies int) {
	if h.Lookups == nil {
		return
	}
	_, err := h.Lookups.RecordLookup(ctx, storage.Lookup{
		Name:         name,
		Version:      version,
		Dependencies: dependencies,
		LookedUpAt:   time.Now(),
	})
	if err != nil {
		h.Log.WithFields(logrus.Fields{
			"name":    name,
			"version": version,
		}).WithError(err).Warn("recording lookup")
	}
}

func (h *Handler) ProxyCrate(w http.ResponseWriter, r *http.Request) {
	params, ok := h.requireQuery(w, r, "name")
	if !ok {
		return
	}

	crate, err := h.Registry.GetCrate(r.Context(), params[0])
	if err != nil {
		h.Log.WithField("name", params[0]).WithError(err).Error("fetching crate")
		h.registryError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, crate); err != nil {
		h.Log.WithError(err).Error("encoding crate response")
	}
}

func (h *Handler) ProxyCrateDependencies(w http.ResponseWriter, r *http.Request) {
	params, ok := h.requireQuery(w, r, "name", "version")
	if !ok {
		return
	}

	deps, err := h.Registry.GetCrateDependencies(r.Context(), params[0], params[1])
	if err != nil {
		h.Log.WithFields(logrus.Fields{
			"name":    params[0],
			"version": params[1],
		}).WithError(err).Error("fetching crate dependencies")
		h.registryError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, deps); err != nil {
		h.Log.WithError(err).Error("encoding crate dependencies response")
	}
}

func (h *Handler) ListLookups(w http.ResponseWriter, r *http.Request) {
	if h.Lookups == nil {
		h.writeError(w, http.StatusNotFound, CodeStorage, "lookup store disabled")
		return
	}

	query := r.URL.Query()
	limit, ok := h.parseLimit(w, query)
	if !ok {
		return
	}

	list, err := h.Lookups.ListLookups(r.Context(), query.Get("name"), limit)
	if err != nil {
		h.Log.WithError(err).Error("listing lookups")
		h.writeError(w, http.StatusInternalServerError, CodeStorage, "failed to list lookups")
		return
	}

	if err := writeJSON(w, http.StatusOK, LookupsResult{Data: list}); err != nil {
		h.Log.WithError(err).Error("encoding lookups response")
	}
}

func (h *Handler) parseLimit(w http.ResponseWriter, query url.Values) (int, bool) {
	raw := query.Get("limit")
	if raw == "" {
		return storage.DefaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		h.writeError(w, http.StatusBadRequest, CodeQuery, "invalid value for `limit`")
		return 0, false
	}
	return limit, true
}

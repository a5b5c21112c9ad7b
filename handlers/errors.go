package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"crates-graph/registry"
)

const (
	CodeQuery               = "query"
	CodeRegistryNotFound    = "registry_not_found"
	CodeRegistryUnavailable = "registry_unavailable"
	CodeRegistryTimeout     = "registry_timeout"
	CodeRegistryDecode      = "registry_decode"
	CodeStorage             = "storage"
	CodeInternal            = "internal"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code        string `json:"name"`
	Description string `json:"description"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, description string) {
	if err := writeJSON(w, status, ErrorResponse{Code: code, Description: description}); err != nil {
		h.Log.WithError(err).Error("encoding error response")
	}
}

func (h *Handler) missingField(w http.ResponseWriter, field string) {
	h.writeError(w, http.StatusBadRequest, CodeQuery, fmt.Sprintf("missing field `%s`", field))
}

// registryError maps a failed registry call onto a status code and error body.
func (h *Handler) registryError(w http.ResponseWriter, err error) {
	kind, ok := registry.KindOf(err)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}

	switch kind {
	case registry.KindNotFound:
		h.writeError(w, http.StatusNotFound, CodeRegistryNotFound, "crate not found in registry")
	case registry.KindTimeout:
		h.writeError(w, http.StatusGatewayTimeout, CodeRegistryTimeout, "registry did not respond in time")
	case registry.KindDecode:
		h.writeError(w, http.StatusBadGateway, CodeRegistryDecode, "registry returned an unreadable response")
	default:
		h.writeError(w, http.StatusBadGateway, CodeRegistryUnavailable, "registry unavailable")
	}
}

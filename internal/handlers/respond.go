package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	applog "stircraft/internal/log"
	"stircraft/internal/metrics"
	"stircraft/internal/recipes"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

type validationResponse struct {
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields"`
	ConflictID uint              `json:"conflict_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps domain errors onto HTTP status codes. Validation
// failures map to 422; JSON endpoints downgrade that to 400.
func statusForError(err error) int {
	if _, ok := recipes.AsValidation(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, recipes.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, recipes.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers a JSON endpoint with the error's status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := recipes.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Error:      "validation failed",
			Fields:     verr.Fields,
			ConflictID: verr.ConflictID,
		})
		return
	}
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

// writeHTTPError answers an HTML endpoint with the error's status.
func writeHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, http.StatusText(status), status)
}

func resultLabel(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	switch statusForError(err) {
	case http.StatusUnprocessableEntity:
		return metrics.ResultInvalid
	case http.StatusForbidden:
		return metrics.ResultDenied
	case http.StatusNotFound:
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

func renderComponent(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "path", r.URL.Path, "error", err)
		if status == http.StatusOK {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// pathSegments splits what follows prefix in the request path.
func pathSegments(r *http.Request, prefix string) []string {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func parseID(raw string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// wantsJSON reports whether the request body is JSON encoded.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func requireService(w http.ResponseWriter) (*recipes.Service, bool) {
	svc := service()
	if svc == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return svc, true
}

// redirectTo sends the browser to path after a successful mutation.
func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

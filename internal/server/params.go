package server

import (
	"net/http"
	"strconv"
)

const (
	defaultSessionLimit = 100
	maxSessionLimit     = 1000
)

// parseIntParam reads an optional integer query parameter. An absent
// parameter yields zero. A malformed one writes 400 and returns false.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+": must be an integer")
		return 0, false
	}
	return v, true
}

// parseOptionalInt is parseIntParam that distinguishes absent from zero.
func parseOptionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	if !r.URL.Query().Has(name) {
		return nil, true
	}
	v, ok := parseIntParam(w, r, name)
	if !ok {
		return nil, false
	}
	return &v, true
}

func parseBoolParam(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+": must be true or false")
		return false, false
	}
	return v, true
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

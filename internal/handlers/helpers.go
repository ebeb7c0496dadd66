// Package handlers exposes the JSON API. Handlers stay thin: they parse and
// validate request input, call into the stores and map store errors onto
// HTTP status codes.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

var errBadNumber = errors.New("handlers: invalid numeric parameter")

// pathID extracts a positive integer path segment.
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadNumber
	}
	return uint(id), nil
}

// queryInt parses an integer query parameter. Missing means the default;
// non-numeric or non-positive values are rejected rather than coerced.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errBadNumber
	}
	return n, nil
}

// queryUint parses an optional ID query parameter; zero means absent.
func queryUint(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errBadNumber
	}
	return uint(id), nil
}

// queryUintList parses a comma-separated ID list; empty means absent.
func queryUintList(r *http.Request, name string) ([]uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, errBadNumber
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// queryStringList parses a comma-separated value list, trimming whitespace.
func queryStringList(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

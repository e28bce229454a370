package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ad3m3r5/scanservjs/internal/sane"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// handleGetDevice returns the device capability model, served from the
// cached snapshot when valid, otherwise from a fresh scanner probe.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := s.provider.Get(r.Context())
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleRefreshDevice bypasses the cache and re-probes the scanner.
func (s *Server) handleRefreshDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := s.provider.Refresh(r.Context())
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleResetDevice deletes the cached snapshot. The next GET re-probes.
func (s *Server) handleResetDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.Reset(); err != nil {
		s.logger.Error("failed to reset device cache",
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "failed to reset device cache")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "reset",
	})
}

// handleGetHistory returns recent refresh history entries.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "refresh history unavailable")
		return
	}

	limit, err := parseHistoryLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to load refresh history",
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "failed to load refresh history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"history": entries,
		"count":   len(entries),
	})
}

// writeDeviceError maps provider failures to HTTP responses. Listing and
// execution failures are upstream problems (the scanner tool), not ours.
func (s *Server) writeDeviceError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("device capability retrieval failed",
		"error", err,
		"request_id", r.Context().Value(ctxKeyRequestID),
	)

	switch {
	case errors.Is(err, sane.ErrNoDeviceIdentifier):
		writeUpstreamError(w, "scanner listing has no device identifier")
	case errors.Is(err, sane.ErrEmptyListing):
		writeUpstreamError(w, "scanner returned an empty listing")
	default:
		writeUpstreamError(w, "scanner probe failed")
	}
}

// parseHistoryLimit parses the limit query parameter with bounds enforcement.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if limit > maxHistoryLimit {
		return 0, fmt.Errorf("limit exceeds maximum")
	}

	return limit, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"pagesmith/internal/document"
	"pagesmith/internal/generate"
	"pagesmith/internal/middleware"
	"pagesmith/internal/publish"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 2 << 20

var (
	// errBadRequest marks request decoding and validation failures.
	errBadRequest = errors.New("bad request")

	// errUnavailable marks features whose backing service is not configured.
	errUnavailable = errors.New("not configured")
)

// badRequest returns an error that maps to 400 with msg as the body.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into dst, rejecting unknown fields and
// trailing data.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON: %v", err)
	}
	if dec.More() {
		return badRequest("request body must hold a single JSON object")
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var flagged *generate.FlaggedError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, document.ErrIndexOutOfRange),
		errors.Is(err, document.ErrUnknownSectionType),
		errors.Is(err, generate.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, document.ErrPageNotFound),
		errors.Is(err, document.ErrSectionNotFound),
		errors.Is(err, publish.ErrNotPublished):
		return http.StatusNotFound
	case errors.Is(err, document.ErrNoActivePage),
		errors.Is(err, document.ErrStaleGeneration):
		return http.StatusConflict
	case errors.As(err, &flagged):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generate.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError writes err as {"error": "..."} with the mapped status.
// Internal errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"id", middleware.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		msg = "internal error"
	}
	middleware.WriteError(w, status, msg)
}

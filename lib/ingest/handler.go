// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/chuteworks/chute/lib/clock"
	"github.com/chuteworks/chute/lib/schema/record"
	"github.com/chuteworks/chute/lib/spool"
)

// Handler routes capture requests to their units. Append units hold
// an open, lock-protected spool appender for the handler's lifetime;
// lock conflicts therefore surface at construction, not on the first
// capture.
type Handler struct {
	units  map[string]*unit
	clock  clock.Clock
	logger *slog.Logger
}

type unit struct {
	config UnitConfig

	// appender is non-nil for append units and owns the spool
	// file's exclusive lock.
	appender *spool.Appender
}

// NewHandler validates the configuration and opens the spool file of
// every append unit. A nil clk falls back to the real clock; a nil
// logger discards.
func NewHandler(config *Config, clk clock.Clock, logger *slog.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	handler := &Handler{
		units:  make(map[string]*unit, len(config.Units)),
		clock:  clk,
		logger: logger,
	}
	for _, unitConfig := range config.Units {
		entry := &unit{config: unitConfig}
		if unitConfig.Append {
			appender, err := spool.NewAppender(unitConfig.Out, spool.AppendOptions{
				Fsync:              unitConfig.Fsync,
				DisableCompression: unitConfig.DisableCompression,
			})
			if err != nil {
				handler.Close()
				return nil, fmt.Errorf("unit %q: %w", unitConfig.Name, err)
			}
			entry.appender = appender
		}
		handler.units[unitConfig.Name] = entry
	}
	return handler, nil
}

// Close closes every append unit's spool file, releasing its lock.
func (h *Handler) Close() error {
	var errs []error
	for name, target := range h.units {
		if target.appender == nil {
			continue
		}
		if err := target.appender.Close(); err != nil {
			errs = append(errs, fmt.Errorf("unit %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// ServeHTTP accepts one capture: select the unit from the d query
// parameter, authenticate, bound the body, build a record, persist
// it. Success is 204 with no body.
func (h *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := request.URL.Query().Get("d")
	target, known := h.units[name]

	secret := ""
	if known {
		secret = target.config.Secret
	}
	// The comparison runs even for unknown units, and a wrong secret
	// gets the same 404 as a missing unit, so probing cannot
	// enumerate configured names. Validation guarantees real units
	// never have an empty secret.
	if !authorized(request, secret) || !known {
		http.Error(writer, "not found", http.StatusNotFound)
		return
	}

	if request.Method != http.MethodPost {
		writer.Header().Set("Allow", http.MethodPost)
		http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := request.Header.Get("Content-Type")
	if target.config.ContentType != "" && contentType != target.config.ContentType {
		http.Error(writer, "unacceptable content type", http.StatusUnsupportedMediaType)
		return
	}

	reader := http.MaxBytesReader(writer, request.Body, target.config.maxBodyBytes())
	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(writer, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(writer, "reading body", http.StatusBadRequest)
		return
	}

	capture := record.New(h.clock.Now(), name, contentType, body)

	var outPath string
	var stored int
	if target.appender != nil {
		outPath = target.appender.Path()
		stored, err = target.appender.Append(capture)
	} else {
		outPath = spool.ExpandTemplate(target.config.Out, h.clock.Now())
		stored, err = spool.WriteRecordFile(outPath, capture, spool.AppendOptions{
			Fsync:              target.config.Fsync,
			DisableCompression: target.config.DisableCompression,
		})
	}
	if err != nil {
		// The error may name filesystem paths; log it, don't leak it.
		h.logger.Error("capture write failed",
			"unit", name,
			"path", outPath,
			"error", err,
		)
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("capture",
		"unit", name,
		"bytes", len(body),
		"stored_bytes", stored,
		"digest", capture.Digest,
		"content_type", contentType,
	)
	writer.WriteHeader(http.StatusNoContent)
}

// authorized reports whether the request carries the unit secret,
// either as the final URL path segment or in the X-Chute-Token
// header. Inputs are hashed before comparison so the check is
// constant-time without leaking secret length, and both carriers are
// always checked.
func authorized(request *http.Request, secret string) bool {
	want := sha256.Sum256([]byte(secret))
	fromPath := sha256.Sum256([]byte(path.Base(request.URL.Path)))
	fromHeader := sha256.Sum256([]byte(request.Header.Get("X-Chute-Token")))

	pathMatch := subtle.ConstantTimeCompare(fromPath[:], want[:])
	headerMatch := subtle.ConstantTimeCompare(fromHeader[:], want[:])
	return pathMatch|headerMatch == 1
}

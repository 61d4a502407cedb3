// Package server exposes the deal calculator and the settings/session store
// over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/divvyplan/internal/apperrors"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/internal/store"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

type handler struct {
	logger         *zap.Logger
	store          *store.Store
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, st *store.Store, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: st, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Full calculation with summary text
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Plain-text summary for copying
	mux.HandleFunc("/api/summary", h.handleSummary)

	// Persisted records
	mux.HandleFunc("/api/settings", h.handleSettings)
	mux.HandleFunc("/api/state", h.handleState)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type calculateRequest struct {
	Settings *calc.Settings `json:"settings,omitempty"`
	State    store.State    `json:"state"`
	Remember bool           `json:"remember,omitempty"`
}

type calculateResponse struct {
	Result     calc.DealResult `json:"result"`
	Summary    string          `json:"summary"`
	ValidSplit bool            `json:"validSplit"`
	Duration   string          `json:"duration"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, settings, ok := h.decodeCalculation(w, r, op)
	if !ok {
		return
	}

	state := req.State
	result := calc.ComputeDealResult(state.DealInput, state.Directors, state.SplitMethod, state.DividendRateTier, settings)

	if req.Remember {
		if err := h.store.SaveState(state); err != nil {
			h.logger.Warn("failed to remember session",
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}

	elapsed := time.Since(start)
	h.logger.Info("deal calculated",
		zap.String("op", op),
		zap.Int("directors", len(state.Directors)),
		zap.String("splitMethod", string(state.SplitMethod)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Result:     result,
		Summary:    calc.FormatSummary(state.DealInput, result, settings, state.DividendRateTier),
		ValidSplit: calc.IsValidSplitFor(state.SplitMethod, state.Directors),
		Duration:   elapsed.String(),
	})
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSummary"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, settings, ok := h.decodeCalculation(w, r, op)
	if !ok {
		return
	}

	state := req.State
	if !calc.IsValidSplitFor(state.SplitMethod, state.Directors) {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, "director splits must total 100%", op)
		return
	}

	result := calc.ComputeDealResult(state.DealInput, state.Directors, state.SplitMethod, state.DividendRateTier, settings)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(calc.FormatSummary(state.DealInput, result, settings, state.DividendRateTier))); err != nil {
		h.logger.Error("failed to write summary", zap.String("op", op), zap.Error(err))
	}
}

// decodeCalculation reads and validates a calculation request. Settings come
// from the request when present and from the store otherwise.
func (h *handler) decodeCalculation(w http.ResponseWriter, r *http.Request, op string) (calculateRequest, calc.Settings, bool) {
	var req calculateRequest
	if !h.decodeBody(w, r, &req, op) {
		return req, calc.Settings{}, false
	}

	settings := h.store.LoadSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	if err := settings.Validate(); err != nil {
		h.respondValidation(w, err, op)
		return req, settings, false
	}
	if err := req.State.Validate(); err != nil {
		h.respondValidation(w, err, op)
		return req, settings, false
	}
	return req, settings, true
}

func (h *handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSettings"
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.store.LoadSettings())

	case http.MethodPut:
		var settings calc.Settings
		if !h.decodeBody(w, r, &settings, op) {
			return
		}
		if err := settings.Validate(); err != nil {
			h.respondValidation(w, err, op)
			return
		}
		if err := h.store.SaveSettings(settings); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save settings: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, settings)

	case http.MethodDelete:
		settings, err := h.store.ResetSettings()
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to reset settings: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, settings)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleState(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleState"
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.store.LoadState(h.store.LoadSettings()))

	case http.MethodPut:
		var state store.State
		if !h.decodeBody(w, r, &state, op) {
			return
		}
		if err := state.Validate(); err != nil {
			h.respondValidation(w, err, op)
			return
		}
		if err := h.store.SaveState(state); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save state: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, state)

	case http.MethodDelete:
		if err := h.store.ClearAll(); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to clear data: %v", err), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondValidation(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	if errors.Is(err, apperrors.ErrValidation) {
		status = http.StatusBadRequest
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// ListenAndServe serves handler on a fasthttp listener until ctx is done.
func ListenAndServe(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &fasthttp.Server{
		Handler:            fasthttpadaptor.NewFastHTTPHandler(handler),
		Name:               "divvyplan",
		MaxRequestBodySize: int(cfg.RequestSizeBytes()),
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "server.ListenAndServe"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe(cfg.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "server.ListenAndServe"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.ShutdownWithContext(shutdownCtx)
	}
}

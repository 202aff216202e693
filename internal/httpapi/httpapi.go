// Package httpapi adapts logdex's four engine operations onto HTTP
// handlers, in the same spirit as the Service.ServeHTTP dispatch the
// wider journal-broker examples use to expose a storage engine: a thin
// method-and-path switch in front of otherwise untouched engine calls.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreyvit/logdex"
)

// Handler serves the record store's HTTP surface. It holds no state of
// its own beyond a reference to the engine and a logger for request-level
// diagnostics.
type Handler struct {
	engine *logdex.Engine
	logger *slog.Logger
}

// New builds a Handler for engine. If logger is nil, slog.Default() is used.
func New(engine *logdex.Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// Mux returns a ServeMux with every route registered, ready to be used
// directly or wrapped by further middleware.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /records/{key}", h.handleGet)
	mux.HandleFunc("DELETE /records/{key}", h.handleDelete)
	mux.HandleFunc("GET /records", h.handlePage)
	mux.HandleFunc("POST /records", h.handleInsert)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

type getResponse struct {
	Record    logdex.Record `json:"record"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	rec, elapsed, err := h.engine.Get(key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, getResponse{Record: rec, ElapsedMS: elapsed})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	elapsed, err := h.engine.Delete(key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"elapsed_ms": elapsed})
}

type pageResponse struct {
	Records   []logdex.Record `json:"records"`
	Page      int             `json:"page"`
	ElapsedMS float64         `json:"elapsed_ms"`
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid page parameter", http.StatusBadRequest)
			return
		}
		page = n
	}

	recs, elapsed, err := h.engine.Page(page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Records: recs, Page: page, ElapsedMS: elapsed})
}

func (h *Handler) handleInsert(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	rec, elapsed, err := h.engine.Insert(fields)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, getResponse{Record: rec, ElapsedMS: elapsed})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if logdex.IsNotFound(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var logdexErr *logdex.Error
	if errors.As(err, &logdexErr) && logdexErr.Kind == logdex.KindMalformedInput {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Error("logdex: request failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

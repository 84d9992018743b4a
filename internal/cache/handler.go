package cache

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suntzu974/zevis/pkg/problem"
)

// SetRequest is the POST /cache/{key} payload. TTL is in seconds; zero or
// absent means no expiry.
type SetRequest struct {
	Value string `json:"value"`
	TTL   int64  `json:"ttl,omitempty"`
}

// Handler is the thin HTTP layer over the cache store.
type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts the cache routes on r. The caller composes the middleware
// chain.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cache/{key}", h.handleGet)
	r.Post("/cache/{key}", h.handleSet)
	r.Delete("/cache/{key}", h.handleDelete)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			problem.NotFound("Cache Key Not Found", "The requested cache key could not be found.").Write(w)
			return
		}
		h.logger.ErrorContext(r.Context(), "cache get failed", "error", err, "key", key)
		problem.Internal().Write(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Invalid("Request body must be a JSON object with a value field").Write(w)
		return
	}
	if req.TTL < 0 {
		problem.Invalid("ttl must not be negative").Write(w)
		return
	}

	ttl := time.Duration(req.TTL) * time.Second
	if err := h.store.Set(r.Context(), key, req.Value, ttl); err != nil {
		h.logger.ErrorContext(r.Context(), "cache set failed", "error", err, "key", key)
		problem.Internal().Write(w)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Value cached successfully", "key": key})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	deleted, err := h.store.Delete(r.Context(), key)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "cache delete failed", "error", err, "key", key)
		problem.Internal().Write(w)
		return
	}
	if !deleted {
		problem.NotFound("Cache Key Not Found", "The requested cache key could not be found.").Write(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cache entry deleted successfully", "key": key})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package api

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"time"

	"ttlmap"
	"ttlmap/internal/health"
	"ttlmap/internal/logs"
	"ttlmap/internal/metrics"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store    *ttlmap.TTLMap[string, string]
	metrics  *metrics.Registry
	logger   *logs.Logger
	analyzer *health.Analyzer
	prom     http.Handler
}

// NewHandler creates a new API handler.
func NewHandler(
	store *ttlmap.TTLMap[string, string],
	metrics *metrics.Registry,
	logger *logs.Logger,
) *Handler {
	return &Handler{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		analyzer: health.NewAnalyzer(metrics, logger),
	}
}

// WithPrometheus serves prom on /metrics/prometheus.
func (h *Handler) WithPrometheus(prom http.Handler) *Handler {
	h.prom = prom
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps map errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ttlmap.ErrNotFound) {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

/* ---------------- /kv/ ---------------- */

func (h *Handler) MissingKey(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "missing key in URL", http.StatusBadRequest)
}

/* ---------------- PUT /kv/{key} ---------------- */

type setRequest struct {
	Value string `json:"value"`
	TTLms *int64 `json:"ttl_ms,omitempty"`
}

func (h *Handler) SetKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	if req.TTLms != nil {
		h.store.SetWithTTL(key, req.Value, time.Duration(*req.TTLms)*time.Millisecond)
	} else {
		h.store.Set(key, req.Value)
	}

	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- GET /kv/{key} ---------------- */

func (h *Handler) GetKey(w http.ResponseWriter, r *http.Request) {
	value, err := h.store.Get(r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"value": value,
	})
}

/* ---------------- DELETE /kv/{key} ---------------- */

func (h *Handler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.PathValue("key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- GET /kv/{key}/ttl ---------------- */

type ttlResponse struct {
	TTLms *int64 `json:"ttl_ms"`
}

func (h *Handler) GetTTL(w http.ResponseWriter, r *http.Request) {
	remaining, ok, err := h.store.GetTTL(r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}

	var resp ttlResponse
	if ok {
		ms := remaining.Milliseconds()
		resp.TTLms = &ms
	}
	writeJSON(w, http.StatusOK, resp)
}

/* ---------------- POST /kv/{key}/expire ---------------- */

type expireRequest struct {
	AtUnixMs *int64 `json:"at_unix_ms,omitempty"`
	InMs     *int64 `json:"in_ms,omitempty"`
}

func (h *Handler) ExpireKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req expireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case req.AtUnixMs != nil && req.InMs == nil:
		err = h.store.ExpireAt(key, time.UnixMilli(*req.AtUnixMs))
	case req.InMs != nil && req.AtUnixMs == nil:
		err = h.store.ExpireIn(key, time.Duration(*req.InMs)*time.Millisecond)
	default:
		http.Error(w, "exactly one of at_unix_ms or in_ms is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- POST /kv/{key}/persist ---------------- */

func (h *Handler) PersistKey(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Persist(r.PathValue("key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- GET /admin/keys ---------------- */

func (h *Handler) ListKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, maps.Collect(h.store.All()))
}

/* ---------------- GET /admin/size ---------------- */

func (h *Handler) GetSize(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"size": h.store.Len(),
	})
}

/* ---------------- GET /admin/debug ---------------- */

func (h *Handler) GetDebug(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(h.store.String()))
}

/* ---------------- GET /admin/logs ---------------- */

const defaultLogCount = 50

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	n := defaultLogCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "n must be a non-negative integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, h.logger.GetLast(n))
}

/* ---------------- GET /metrics ---------------- */

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

/* ---------------- GET /metrics/prometheus ---------------- */

func (h *Handler) GetPrometheus(w http.ResponseWriter, r *http.Request) {
	if h.prom == nil {
		http.Error(w, "prometheus metrics disabled", http.StatusNotFound)
		return
	}
	h.prom.ServeHTTP(w, r)
}

/* ---------------- GET /health ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analyzer.Analyze())
}

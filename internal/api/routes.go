package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) http.Handler {
	// KV APIs
	mux.HandleFunc("/kv/{$}", h.MissingKey)
	mux.HandleFunc("PUT /kv/{key}", h.SetKey)
	mux.HandleFunc("GET /kv/{key}", h.GetKey)
	mux.HandleFunc("DELETE /kv/{key}", h.DeleteKey)

	// TTL APIs
	mux.HandleFunc("GET /kv/{key}/ttl", h.GetTTL)
	mux.HandleFunc("POST /kv/{key}/expire", h.ExpireKey)
	mux.HandleFunc("POST /kv/{key}/persist", h.PersistKey)

	// Admin APIs
	mux.HandleFunc("GET /admin/keys", h.ListKeys)
	mux.HandleFunc("GET /admin/size", h.GetSize)
	mux.HandleFunc("GET /admin/debug", h.GetDebug)
	mux.HandleFunc("GET /admin/logs", h.GetLogs)

	// Observability APIs
	mux.HandleFunc("GET /metrics", h.GetMetrics)
	mux.HandleFunc("GET /metrics/prometheus", h.GetPrometheus)
	mux.HandleFunc("GET /health", h.GetHealth)

	// Middlewares
	return Chain(
		mux,
		RequestIDMiddleware,
		RecoveryMiddleware(h.logger, h.metrics),
		LoggingMiddleware(h.logger, h.metrics),
	)
}

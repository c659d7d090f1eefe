package httpapi

import (
	"net/http"
	"time"

	"climate-server/internal/config"
	"climate-server/internal/observability"
)

func NewServer(cfg config.Config, mux *http.ServeMux, metrics *observability.Metrics) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           requestLogger(metrics, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

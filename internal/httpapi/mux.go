package httpapi

import (
	"database/sql"
	"net/http"

	"climate-server/internal/observability"
)

// NewMux returns a mux carrying the operational routes. Features register
// their own routes on it afterwards.
func NewMux(db *sql.DB, metrics *observability.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

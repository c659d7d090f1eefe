package climate

import (
	"database/sql"
	"net/http"

	"climate-server/internal/config"
	store "climate-server/internal/db"
	"climate-server/internal/modules/climate/controller"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/observability"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config, metrics *observability.Metrics) {
	climateRepository := repository.NewRepository(db, store.DialectFor(cfg.Driver), metrics)
	climateController := controller.NewClimateController(climateRepository, controller.Options{
		TobsStation:    cfg.TobsStation,
		TobsWindowDays: cfg.TobsWindowDays,
	})
	climateController.RegisterRoutes(mux)
}

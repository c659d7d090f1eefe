package controller

import (
	"net/http"

	"climate-server/internal/modules/climate/repository"
)

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options configures the fixed parameters of /api/v1.0/tobs.
type Options struct {
	TobsStation    string
	TobsWindowDays int
}

type climateControllerImpl struct {
	repository     repository.ClimateRepository
	tobsStation    string
	tobsWindowDays int
}

func NewClimateController(repo repository.ClimateRepository, opts Options) ClimateController {
	return &climateControllerImpl{
		repository:     repo,
		tobsStation:    opts.TobsStation,
		tobsWindowDays: opts.TobsWindowDays,
	}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleHome)
	mux.HandleFunc("GET "+apiPrefix+"/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET "+apiPrefix+"/stations", c.handleStations)
	mux.HandleFunc("GET "+apiPrefix+"/tobs", c.handleTobs)
	mux.HandleFunc("GET "+apiPrefix+"/{start}", c.handleSummary)
	mux.HandleFunc("GET "+apiPrefix+"/{start}/{end}", c.handleSummary)
}

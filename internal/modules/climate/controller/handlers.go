package controller

import (
	"bytes"
	"net/http"

	"climate-server/internal/logging"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleHome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderHome(&buf, &views.HomeData{Routes: homeRoutes}); err != nil {
		logging.FromContext(r.Context()).Error("home template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repository.AllPrecipitation(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.repository.AllStations(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.repository.RecentTemperatureObservations(r.Context(), c.tobsStation, c.tobsWindowDays)
	if err != nil {
		logging.FromContext(r.Context()).Error("tobs: query failed", "station", c.tobsStation, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

func (c *climateControllerImpl) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end := summaryBounds(r)
	summary, err := c.repository.PrecipitationSummary(r.Context(), start, end)
	if err != nil {
		logging.FromContext(r.Context()).Error("summary: query failed", "start", start, "end", end, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, []types.PrecipitationSummary{summary})
}

package climate

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"climate-server/internal/config"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/observability"
)

func TestRegisterFeature(t *testing.T) {
	require.NoError(t, views.LoadTemplates())

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	fixture, err := os.ReadFile("repository/testdata/fixture.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(fixture))
	require.NoError(t, err)

	mux := http.NewServeMux()
	RegisterFeature(mux, db, config.Config{
		Driver:         "sqlite3",
		TobsStation:    config.DefaultTobsStation,
		TobsWindowDays: config.DefaultTobsWindowDays,
	}, observability.NewMetrics())

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("home", func(t *testing.T) {
		rec := get("/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Available Routes:")
	})

	t.Run("stations", func(t *testing.T) {
		rec := get("/api/v1.0/stations")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []types.Station
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 3)
	})

	t.Run("tobs", func(t *testing.T) {
		rec := get("/api/v1.0/tobs")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []types.TemperatureObservation
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got, 5)
		for _, o := range got {
			assert.Equal(t, config.DefaultTobsStation, o.Station)
		}
	})

	t.Run("summary between", func(t *testing.T) {
		rec := get("/api/v1.0/2017-01-01/2017-01-03")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []types.PrecipitationSummary
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Max)
		assert.InDelta(t, 0.5, *got[0].Max, 1e-9)
	})
}

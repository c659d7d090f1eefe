package types

import "climate-server/internal/db"

// Station is one row of the station table as exposed by /api/v1.0/stations.
type Station struct {
	Station string `json:"station"`
	Name    string `json:"name"`
}

// Precipitation is one (date, prcp) pair. Prcp is null when the station
// did not report precipitation that day.
type Precipitation struct {
	Date string   `json:"date"`
	Prcp *float64 `json:"prcp"`
}

// TemperatureObservation is one (station, date, tobs) row.
type TemperatureObservation struct {
	Station string `json:"station"`
	Date    string `json:"date"`
	Tobs    int    `json:"tobs"`
}

// PrecipitationSummary aggregates prcp over a date range. Every field is
// null when no row matched.
type PrecipitationSummary struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg *float64 `json:"avg"`
}

// DateLayout is the storage format of measurement.date. Lexicographic order
// on it equals chronological order.
const DateLayout = "2006-01-02"

// Schema is the part of the store the API reads. Extra columns (latitude,
// longitude, elevation, ids) may exist and are ignored.
var Schema = []db.Table{
	{Name: "measurement", Columns: []string{"date", "station", "prcp", "tobs"}},
	{Name: "station", Columns: []string{"station", "name"}},
}

package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"time"

	store "climate-server/internal/db"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/observability"
)

//go:embed sql/all-precipitation.sql
var allPrecipitationSQL string

//go:embed sql/all-stations.sql
var allStationsSQL string

//go:embed sql/latest-measurement-date.sql
var latestMeasurementDateSQL string

//go:embed sql/station-temperature-since.sql
var stationTemperatureSinceSQL string

//go:embed sql/precipitation-summary-from.sql
var precipitationSummaryFromSQL string

//go:embed sql/precipitation-summary-between.sql
var precipitationSummaryBetweenSQL string

type ClimateRepository interface {
	AllPrecipitation(ctx context.Context) ([]types.Precipitation, error)
	AllStations(ctx context.Context) ([]types.Station, error)
	RecentTemperatureObservations(ctx context.Context, stationID string, windowDays int) ([]types.TemperatureObservation, error)
	// PrecipitationSummary aggregates over date >= start when end is empty,
	// and over start < date < end otherwise. Bounds are opaque strings compared
	// with the text form of date, so a malformed bound matches nothing.
	PrecipitationSummary(ctx context.Context, start, end string) (types.PrecipitationSummary, error)
}

type queries struct {
	allPrecipitation            string
	allStations                 string
	latestMeasurementDate       string
	stationTemperatureSince     string
	precipitationSummaryFrom    string
	precipitationSummaryBetween string
}

type repositoryImpl struct {
	db      *sql.DB
	q       queries
	metrics *observability.Metrics
}

// NewRepository binds the embedded queries to dialect. metrics may be nil.
func NewRepository(db *sql.DB, dialect store.Dialect, metrics *observability.Metrics) ClimateRepository {
	return &repositoryImpl{
		db: db,
		q: queries{
			allPrecipitation:            dialect.Rebind(allPrecipitationSQL),
			allStations:                 dialect.Rebind(allStationsSQL),
			latestMeasurementDate:       dialect.Rebind(latestMeasurementDateSQL),
			stationTemperatureSince:     dialect.Rebind(stationTemperatureSinceSQL),
			precipitationSummaryFrom:    dialect.Rebind(precipitationSummaryFromSQL),
			precipitationSummaryBetween: dialect.Rebind(precipitationSummaryBetweenSQL),
		},
		metrics: metrics,
	}
}

// withSession checks a connection out of the pool for the duration of fn and
// hands it back before returning.
func (r *repositoryImpl) withSession(ctx context.Context, op string, fn func(conn *sql.Conn) error) (err error) {
	start := time.Now()
	defer func() { r.metrics.ObserveQuery(op, start, err) }()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%s: acquire session: %w", op, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("release session", "op", op, "error", closeErr)
		}
	}()

	if err := fn(conn); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *repositoryImpl) AllPrecipitation(ctx context.Context) ([]types.Precipitation, error) {
	out := make([]types.Precipitation, 0)
	err := r.withSession(ctx, "all_precipitation", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.q.allPrecipitation)
		if err != nil {
			return err
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close precipitation rows", "error", err)
			}
		}()
		for rows.Next() {
			var (
				rec  types.Precipitation
				prcp sql.NullFloat64
			)
			if err := rows.Scan(&rec.Date, &prcp); err != nil {
				return err
			}
			rec.Prcp = nullableFloat(prcp)
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) AllStations(ctx context.Context) ([]types.Station, error) {
	out := make([]types.Station, 0)
	err := r.withSession(ctx, "all_stations", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.q.allStations)
		if err != nil {
			return err
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close stations rows", "error", err)
			}
		}()
		for rows.Next() {
			var s types.Station
			if err := rows.Scan(&s.Station, &s.Name); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecentTemperatureObservations returns stationID's observations dated after
// (latest stored date - windowDays). The latest date is taken over every
// station, not just stationID. Both reads share one session. Rows without a
// tobs reading are skipped and fractional readings are rounded.
func (r *repositoryImpl) RecentTemperatureObservations(ctx context.Context, stationID string, windowDays int) ([]types.TemperatureObservation, error) {
	out := make([]types.TemperatureObservation, 0)
	err := r.withSession(ctx, "recent_temperature_observations", func(conn *sql.Conn) error {
		var latest sql.NullString
		if err := conn.QueryRowContext(ctx, r.q.latestMeasurementDate).Scan(&latest); err != nil {
			return fmt.Errorf("latest measurement date: %w", err)
		}
		// no dated measurements at all
		if !latest.Valid {
			return nil
		}

		cutoff, err := WindowStart(latest.String, windowDays)
		if err != nil {
			return err
		}

		rows, err := conn.QueryContext(ctx, r.q.stationTemperatureSince, stationID, cutoff)
		if err != nil {
			return err
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close temperature rows", "error", err)
			}
		}()
		for rows.Next() {
			var (
				rec  types.TemperatureObservation
				tobs float64
			)
			if err := rows.Scan(&rec.Station, &rec.Date, &tobs); err != nil {
				return err
			}
			rec.Tobs = int(math.Round(tobs))
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) PrecipitationSummary(ctx context.Context, start, end string) (types.PrecipitationSummary, error) {
	query, args := r.q.precipitationSummaryFrom, []any{start}
	if end != "" {
		query, args = r.q.precipitationSummaryBetween, []any{start, end}
	}

	var summary types.PrecipitationSummary
	err := r.withSession(ctx, "precipitation_summary", func(conn *sql.Conn) error {
		var minPrcp, maxPrcp, avgPrcp sql.NullFloat64
		if err := conn.QueryRowContext(ctx, query, args...).Scan(&minPrcp, &maxPrcp, &avgPrcp); err != nil {
			return err
		}
		summary = types.PrecipitationSummary{
			Min: nullableFloat(minPrcp),
			Max: nullableFloat(maxPrcp),
			Avg: nullableFloat(avgPrcp),
		}
		return nil
	})
	if err != nil {
		return types.PrecipitationSummary{}, err
	}
	return summary, nil
}

// WindowStart returns latest minus days, in storage date format.
func WindowStart(latest string, days int) (string, error) {
	t, err := time.Parse(types.DateLayout, latest)
	if err != nil {
		return "", fmt.Errorf("parse latest date %q: %w", latest, err)
	}
	return t.AddDate(0, 0, -days).Format(types.DateLayout), nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

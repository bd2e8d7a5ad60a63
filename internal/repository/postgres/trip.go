package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/repository"
)

// TripRepository is a PostgreSQL implementation of
// repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `
	id, device_id, started_at, ended_at, distance_meters, duration_seconds,
	start_region, end_region, start_display, end_display,
	base_fare, distance_fare, time_fare, region_surcharge, night_surcharge, total_fare,
	ended_by, path
`

// Create persists a completed trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	path, err := json.Marshal(trip.Path)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DeviceID,
		trip.StartedAt,
		trip.EndedAt,
		trip.DistanceMeters,
		int64(trip.Duration.Seconds()),
		string(trip.StartRegion),
		string(trip.EndRegion),
		trip.StartDisplay,
		trip.EndDisplay,
		trip.Fare.BaseFare,
		trip.Fare.DistanceFare,
		trip.Fare.TimeFare,
		trip.Fare.RegionSurcharge,
		trip.Fare.NightSurcharge,
		trip.Fare.TotalFare,
		string(trip.EndedBy),
		path,
	)
	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// List retrieves one page of a device's trips, newest first.
func (r *TripRepository) List(ctx context.Context, deviceID string, page, pageSize int) ([]*domain.Trip, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips WHERE device_id = $1`, deviceID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + tripColumns + `
		FROM trips WHERE device_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, deviceID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, trip)
	}
	return trips, total, rows.Err()
}

// Delete removes a trip from history.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		trip            domain.Trip
		durationSeconds int64
		startRegion     string
		endRegion       string
		endedBy         string
		path            []byte
	)

	err := row.Scan(
		&trip.ID,
		&trip.DeviceID,
		&trip.StartedAt,
		&trip.EndedAt,
		&trip.DistanceMeters,
		&durationSeconds,
		&startRegion,
		&endRegion,
		&trip.StartDisplay,
		&trip.EndDisplay,
		&trip.Fare.BaseFare,
		&trip.Fare.DistanceFare,
		&trip.Fare.TimeFare,
		&trip.Fare.RegionSurcharge,
		&trip.Fare.NightSurcharge,
		&trip.Fare.TotalFare,
		&endedBy,
		&path,
	)
	if err != nil {
		return nil, err
	}

	trip.Duration = time.Duration(durationSeconds) * time.Second
	trip.StartRegion = domain.RegionCode(startRegion)
	trip.EndRegion = domain.RegionCode(endRegion)
	trip.EndedBy = domain.TripEndTrigger(endedBy)
	if len(path) > 0 {
		if err := json.Unmarshal(path, &trip.Path); err != nil {
			return nil, err
		}
	}
	return &trip, nil
}

package repository // repository for train persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

// TrainRepo encapsulates database operations for trains.  Trains are
// read-mostly in this service; no locking discipline applies to them.
type TrainRepo struct {
	db *sql.DB
}

// NewTrainRepo returns a new TrainRepo bound to the provided database.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// DB exposes the underlying handle for callers that need to open a
// transaction spanning more than one repository.
func (r *TrainRepo) DB() *sql.DB { return r.db }

const trainColumns = `id, train_number, route_from, route_to, departure_time, arrival_time, duration_hours, base_price, is_active`

// Create inserts a train record.  On success the train's ID is populated.
func (r *TrainRepo) Create(ctx context.Context, t *model.Train) error {
	const q = `INSERT INTO trains (train_number, route_from, route_to, departure_time, arrival_time, duration_hours, base_price, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.TrainNumber, t.RouteFrom, t.RouteTo,
		t.DepartureTime.UTC(), t.ArrivalTime.UTC(),
		t.DurationHours, t.BasePrice, t.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a single train.  Returns ErrTrainNotFound when no
// train with the ID exists.
func (r *TrainRepo) GetByID(ctx context.Context, trainID uint64) (*model.Train, error) {
	q := `SELECT ` + trainColumns + ` FROM trains WHERE id = ?`
	var t model.Train
	err := r.db.QueryRowContext(ctx, q, trainID).Scan(
		&t.ID, &t.TrainNumber, &t.RouteFrom, &t.RouteTo,
		&t.DepartureTime, &t.ArrivalTime, &t.DurationHours, &t.BasePrice, &t.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Search returns active trains running the exact origin/destination
// pair, ordered by departure time.
func (r *TrainRepo) Search(ctx context.Context, routeFrom, routeTo string) ([]model.Train, error) {
	q := `SELECT ` + trainColumns + ` FROM trains
	      WHERE route_from = ? AND route_to = ? AND is_active = TRUE
	      ORDER BY departure_time`
	return r.queryTrains(ctx, q, routeFrom, routeTo)
}

// ListActive returns all active trains ordered by departure time.
func (r *TrainRepo) ListActive(ctx context.Context) ([]model.Train, error) {
	q := `SELECT ` + trainColumns + ` FROM trains WHERE is_active = TRUE ORDER BY departure_time`
	return r.queryTrains(ctx, q)
}

func (r *TrainRepo) queryTrains(ctx context.Context, q string, args ...interface{}) ([]model.Train, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trains := make([]model.Train, 0)
	for rows.Next() {
		var t model.Train
		if err := rows.Scan(
			&t.ID, &t.TrainNumber, &t.RouteFrom, &t.RouteTo,
			&t.DepartureTime, &t.ArrivalTime, &t.DurationHours, &t.BasePrice, &t.IsActive,
		); err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trains, nil
}

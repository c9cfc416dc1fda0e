package repository // repository for wagon persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

// WagonRepo encapsulates database operations for wagons.
type WagonRepo struct {
	db *sql.DB
}

// NewWagonRepo returns a new WagonRepo bound to the provided database.
func NewWagonRepo(db *sql.DB) *WagonRepo { return &WagonRepo{db: db} }

const wagonColumns = `id, train_id, wagon_number, wagon_type, total_seats, price_multiplier`

// Create inserts a wagon record.  On success the wagon's ID is populated.
func (r *WagonRepo) Create(ctx context.Context, w *model.Wagon) error {
	const q = `INSERT INTO wagons (train_id, wagon_number, wagon_type, total_seats, price_multiplier)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, w.TrainID, w.WagonNumber, w.WagonType, w.TotalSeats, w.PriceMultiplier)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// GetByID retrieves a single wagon.  Returns ErrWagonNotFound when no
// wagon with the ID exists.
func (r *WagonRepo) GetByID(ctx context.Context, wagonID uint64) (*model.Wagon, error) {
	q := `SELECT ` + wagonColumns + ` FROM wagons WHERE id = ?`
	var w model.Wagon
	err := r.db.QueryRowContext(ctx, q, wagonID).Scan(
		&w.ID, &w.TrainID, &w.WagonNumber, &w.WagonType, &w.TotalSeats, &w.PriceMultiplier,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWagonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListByTrain returns all wagons of a train ordered by wagon number.
func (r *WagonRepo) ListByTrain(ctx context.Context, trainID uint64) ([]model.Wagon, error) {
	q := `SELECT ` + wagonColumns + ` FROM wagons WHERE train_id = ? ORDER BY wagon_number`
	return r.queryWagons(ctx, q, trainID)
}

// ListByTrainAndType returns a train's wagons of one type ordered by
// wagon number.
func (r *WagonRepo) ListByTrainAndType(ctx context.Context, trainID uint64, wagonType model.WagonType) ([]model.Wagon, error) {
	q := `SELECT ` + wagonColumns + ` FROM wagons WHERE train_id = ? AND wagon_type = ? ORDER BY wagon_number`
	return r.queryWagons(ctx, q, trainID, wagonType)
}

func (r *WagonRepo) queryWagons(ctx context.Context, q string, args ...interface{}) ([]model.Wagon, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	wagons := make([]model.Wagon, 0)
	for rows.Next() {
		var w model.Wagon
		if err := rows.Scan(&w.ID, &w.TrainID, &w.WagonNumber, &w.WagonType, &w.TotalSeats, &w.PriceMultiplier); err != nil {
			return nil, err
		}
		wagons = append(wagons, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return wagons, nil
}

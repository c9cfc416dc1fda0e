package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"time"         // hold timestamps

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

// ReserveOutcome is the result of a reservation attempt.  Callers can
// tell "lost the race" apart from "seat does not exist" without
// parsing errors.
type ReserveOutcome int

const (
	// Reserved means the caller now exclusively holds the seat.
	Reserved ReserveOutcome = iota
	// AlreadyHeld means another ticket or in-flight booking owns the seat.
	AlreadyHeld
	// SeatMissing means no seat with the given ID exists.
	SeatMissing
)

// SeatRepo provides methods to work with seats in the database.  It is
// the single component with a locking discipline: TryReserve takes a
// row-level exclusive lock for the duration of one check-and-set and
// nothing more.  Pricing and ticket persistence happen outside it.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts seats numbered 1..total for a wagon in a single
// statement.  New seats start Free.
func (r *SeatRepo) CreateBulk(ctx context.Context, wagonID uint64, total uint32) error {
	if total == 0 {
		return nil
	}
	query := `INSERT INTO seats (wagon_id, seat_number, state) VALUES `
	args := make([]interface{}, 0, int(total)*3)
	for n := uint32(1); n <= total; n++ {
		if n > 1 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, wagonID, n, model.SeatFree)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a single seat.  Returns ErrSeatNotFound when no
// seat with the ID exists.
func (r *SeatRepo) GetByID(ctx context.Context, seatID uint64) (*model.Seat, error) {
	const q = `SELECT id, wagon_id, seat_number, state, reserved_at FROM seats WHERE id = ?`
	var s model.Seat
	var reservedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, seatID).Scan(&s.ID, &s.WagonID, &s.SeatNumber, &s.State, &reservedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	if reservedAt.Valid {
		t := reservedAt.Time.UTC()
		s.ReservedAt = &t
	}
	return &s, nil
}

// ListByWagon retrieves all seats of a wagon ordered by seat number.
func (r *SeatRepo) ListByWagon(ctx context.Context, wagonID uint64) ([]model.Seat, error) {
	const q = `SELECT id, wagon_id, seat_number, state, reserved_at
	           FROM seats WHERE wagon_id = ? ORDER BY seat_number`
	return r.querySeats(ctx, q, wagonID)
}

// ListAvailableByWagon retrieves only the Free seats of a wagon
// ordered by seat number.
func (r *SeatRepo) ListAvailableByWagon(ctx context.Context, wagonID uint64) ([]model.Seat, error) {
	const q = `SELECT id, wagon_id, seat_number, state, reserved_at
	           FROM seats WHERE wagon_id = ? AND state = ? ORDER BY seat_number`
	return r.querySeats(ctx, q, wagonID, model.SeatFree)
}

// CountAvailableByWagon returns the number of Free seats in a wagon.
func (r *SeatRepo) CountAvailableByWagon(ctx context.Context, wagonID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE wagon_id = ? AND state = ?`
	var n uint32
	if err := r.db.QueryRowContext(ctx, q, wagonID, model.SeatFree).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TryReserve atomically transitions a seat Free -> Held.  Under
// concurrent callers exactly one wins; losers get AlreadyHeld, not an
// error.  The row lock (SELECT ... FOR UPDATE) spans only this
// read-check-write; callers must do pricing and ticket insertion after
// it returns, never inside it.
func (r *SeatRepo) TryReserve(ctx context.Context, seatID uint64) (ReserveOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return AlreadyHeld, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT state FROM seats WHERE id = ? FOR UPDATE`
	var state model.SeatState
	err = tx.QueryRowContext(ctx, sel, seatID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return SeatMissing, nil
	}
	if err != nil {
		return AlreadyHeld, err
	}
	if state != model.SeatFree {
		return AlreadyHeld, nil
	}

	const upd = `UPDATE seats SET state = ?, reserved_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, model.SeatHeld, time.Now().UTC(), seatID); err != nil {
		return AlreadyHeld, err
	}
	if err := tx.Commit(); err != nil {
		return AlreadyHeld, err
	}
	committed = true
	return Reserved, nil
}

// Release transitions a seat Held -> Free unconditionally.  Releasing
// a Free or unknown seat is a no-op, so the call is safe both as the
// compensating action after a failed ticket insert and as part of
// cancellation, and safe to repeat.
func (r *SeatRepo) Release(ctx context.Context, seatID uint64) error {
	const q = `UPDATE seats SET state = ?, reserved_at = NULL WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, model.SeatFree, seatID)
	return err
}

// ReleaseExpiredHolds frees seats that have been Held since before the
// cutoff without an owning ticket.  Such seats can only result from a
// booking that crashed between the hold and the ticket insert; the
// reaper calls this periodically so they do not leak into permanent
// unavailability.  It returns the IDs of the seats released.
func (r *SeatRepo) ReleaseExpiredHolds(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT s.id FROM seats s
	             LEFT JOIN tickets t ON t.seat_id = s.id
	             WHERE s.state = ? AND s.reserved_at <= ? AND t.id IS NULL
	             FOR UPDATE`
	rows, err := tx.QueryContext(ctx, sel, model.SeatHeld, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	var expired []uint64
	for rows.Next() {
		var id uint64
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		expired = append(expired, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		committed = true
		return nil, tx.Commit()
	}

	query := `UPDATE seats SET state = ?, reserved_at = NULL WHERE id IN (`
	args := make([]interface{}, 0, len(expired)+1)
	args = append(args, model.SeatFree)
	for i, id := range expired {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return expired, nil
}

// querySeats runs a seat query and scans all rows.
func (r *SeatRepo) querySeats(ctx context.Context, q string, args ...interface{}) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		var reservedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.WagonID, &s.SeatNumber, &s.State, &reservedAt); err != nil {
			return nil, err
		}
		if reservedAt.Valid {
			t := reservedAt.Time.UTC()
			s.ReservedAt = &t
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

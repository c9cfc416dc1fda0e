package repository // repository for ticket persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

// TicketRepo encapsulates database operations for tickets.  The
// ticket_number column carries a unique constraint; the store, not the
// number generator, is the final authority on uniqueness.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the provided database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, train_id, wagon_id, seat_id, passenger_name, passenger_email, passenger_phone,
	discount_category, discount_percent, base_price, final_price, ticket_number, is_paid,
	departure_time, arrival_time, created_at`

// Create inserts a ticket record.  The caller must already hold the
// referenced seat; a failed insert is compensated by the service with
// a seat release.  On success the ticket's ID is populated.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets
	           (train_id, wagon_id, seat_id, passenger_name, passenger_email, passenger_phone,
	            discount_category, discount_percent, base_price, final_price, ticket_number, is_paid,
	            departure_time, arrival_time)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.TrainID, t.WagonID, t.SeatID,
		t.PassengerName, t.PassengerEmail, t.PassengerPhone,
		t.DiscountCategory, t.DiscountPercent, t.BasePrice, t.FinalPrice,
		t.TicketNumber, t.IsPaid,
		t.DepartureTime.UTC(), t.ArrivalTime.UTC(),
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

// GetByID retrieves a single ticket.  Returns ErrTicketNotFound when
// no ticket with the ID exists.
func (r *TicketRepo) GetByID(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	return r.queryTicket(ctx, q, ticketID)
}

// GetByNumber retrieves a ticket by its public booking reference.
func (r *TicketRepo) GetByNumber(ctx context.Context, number string) (*model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number = ?`
	return r.queryTicket(ctx, q, number)
}

// ListByEmail returns all tickets of a passenger, most recent first.
func (r *TicketRepo) ListByEmail(ctx context.Context, passengerEmail string) ([]model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE passenger_email = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, passengerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// SetPaid updates the payment flag.  Returns ErrTicketNotFound when no
// ticket with the ID exists; updating an already-paid ticket is a
// no-op at the row level and not an error.
func (r *TicketRepo) SetPaid(ctx context.Context, ticketID uint64, paid bool) error {
	const q = `UPDATE tickets SET is_paid = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, paid, ticketID)
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update,
	// so existence is checked explicitly.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, ticketID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a ticket record.  Returns ErrTicketNotFound when no
// ticket with the ID exists.  The caller must release the associated
// seat before deleting (release-then-delete: a crash in between leaves
// a freed seat with a stale ticket, which a retried delete recovers;
// the opposite order could leave a permanently stuck seat).
func (r *TicketRepo) Delete(ctx context.Context, ticketID uint64) error {
	const q = `DELETE FROM tickets WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, ticketID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepo) queryTicket(ctx context.Context, q string, arg interface{}) (*model.Ticket, error) {
	var t model.Ticket
	err := scanTicket(r.db.QueryRowContext(ctx, q, arg), &t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner, t *model.Ticket) error {
	return row.Scan(
		&t.ID, &t.TrainID, &t.WagonID, &t.SeatID,
		&t.PassengerName, &t.PassengerEmail, &t.PassengerPhone,
		&t.DiscountCategory, &t.DiscountPercent, &t.BasePrice, &t.FinalPrice,
		&t.TicketNumber, &t.IsPaid,
		&t.DepartureTime, &t.ArrivalTime, &t.CreatedAt,
	)
}

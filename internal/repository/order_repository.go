package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,transaction_id,movie_id,theater_id,showtime_id,seats,user_email,user_name,user_phone,payment_method,status,total_amount_cents,confirmation_code,expires_at,created_at"

// Insert persists a ticket order and returns its row ID.
func (r *OrderRepo) Insert(ctx context.Context, o *model.TicketOrder) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO ticket_orders
		 (transaction_id, movie_id, theater_id, showtime_id, seats, user_email, user_name, user_phone, payment_method, status, total_amount_cents, confirmation_code, expires_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.TransactionID, o.MovieID, o.TheaterID, o.ShowtimeID, strings.Join(o.Seats, ","),
		o.UserEmail, o.UserName, o.UserPhone, o.PaymentMethod, o.Status,
		o.TotalAmountCents, o.ConfirmationCode, o.ExpiresAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByConfirmationCode fetches an order by the code printed on the
// ticket.  Used at the door to validate entry.
func (r *OrderRepo) GetByConfirmationCode(ctx context.Context, code string) (model.TicketOrder, error) {
	var o model.TicketOrder
	var seats string
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM ticket_orders WHERE confirmation_code=? LIMIT 1", code).
		Scan(&o.ID, &o.TransactionID, &o.MovieID, &o.TheaterID, &o.ShowtimeID, &seats,
			&o.UserEmail, &o.UserName, &o.UserPhone, &o.PaymentMethod, &o.Status,
			&o.TotalAmountCents, &o.ConfirmationCode, &o.ExpiresAt, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}
	if seats != "" {
		o.Seats = strings.Split(seats, ",")
	}
	return o, nil
}

// GetByTransactionID fetches an order by its opaque transaction id.
func (r *OrderRepo) GetByTransactionID(ctx context.Context, txID string) (model.TicketOrder, error) {
	var o model.TicketOrder
	var seats string
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM ticket_orders WHERE transaction_id=? LIMIT 1", txID).
		Scan(&o.ID, &o.TransactionID, &o.MovieID, &o.TheaterID, &o.ShowtimeID, &seats,
			&o.UserEmail, &o.UserName, &o.UserPhone, &o.PaymentMethod, &o.Status,
			&o.TotalAmountCents, &o.ConfirmationCode, &o.ExpiresAt, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}
	if seats != "" {
		o.Seats = strings.Split(seats, ",")
	}
	return o, nil
}

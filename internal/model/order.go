package model

import "time"

// Ticket order statuses.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderFailed    = "failed"
	OrderCancelled = "cancelled"
)

// TicketOrder is a purchase of one or more seats for a showtime.  Payment
// is stubbed: orders are confirmed immediately and a confirmation code is
// generated instead of redirecting to a processor.
type TicketOrder struct {
	ID               uint64    // ticket_orders.id
	TransactionID    string    // ticket_orders.transaction_id (opaque, returned to caller)
	MovieID          uint64    // ticket_orders.movie_id
	TheaterID        string    // ticket_orders.theater_id
	ShowtimeID       string    // ticket_orders.showtime_id
	Seats            []string  // ticket_orders.seats (comma-joined column)
	UserEmail        string    // ticket_orders.user_email
	UserName         string    // ticket_orders.user_name
	UserPhone        string    // ticket_orders.user_phone
	PaymentMethod    string    // ticket_orders.payment_method
	Status           string    // ticket_orders.status
	TotalAmountCents uint32    // ticket_orders.total_amount_cents
	ConfirmationCode string    // ticket_orders.confirmation_code
	ExpiresAt        time.Time // ticket_orders.expires_at
	CreatedAt        time.Time // ticket_orders.created_at
}

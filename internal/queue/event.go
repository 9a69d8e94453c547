// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPurchasedEvent is published when a ticket purchase is confirmed.
// It carries enough context for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type TicketPurchasedEvent struct {
	TransactionID    string   `json:"transaction_id"`
	MovieID          uint64   `json:"movie_id"`
	MovieTitle       string   `json:"movie_title"`
	TheaterID        string   `json:"theater_id"`
	TheaterName      string   `json:"theater_name"`
	ShowtimeID       string   `json:"showtime_id"`
	Seats            []string `json:"seats"`
	UserEmail        string   `json:"user_email"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmationCode string   `json:"confirmation_code"`
	PurchasedAt      string   `json:"purchased_at"`
}

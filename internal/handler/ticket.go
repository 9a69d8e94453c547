package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/queue"
	queuepublisher "github.com/cinesaas/movie-booking-api/internal/service"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// seatPriceCents is the flat per-seat price used by the stubbed payment
// flow.
const seatPriceCents = 1250

// TicketHandler serves the purchase flow.  Payment is stubbed: orders
// confirm immediately and downstream systems hear about them over the
// message broker.
type TicketHandler struct {
	Orders *repository.OrderRepo
	Movies *repository.MovieRepo
}

func NewTicketHandler(orders *repository.OrderRepo, movies *repository.MovieRepo) *TicketHandler {
	return &TicketHandler{Orders: orders, Movies: movies}
}

type purchaseReq struct {
	MovieID       uint64   `json:"movie_id"`
	TheaterID     string   `json:"theater_id"`
	ShowtimeID    string   `json:"showtime_id"`
	Seats         []string `json:"seats"`
	UserEmail     string   `json:"user_email"`
	UserName      string   `json:"user_name"`
	UserPhone     string   `json:"user_phone"`
	PaymentMethod string   `json:"payment_method"`
}

// Purchase confirms a ticket order and publishes a purchase event.  The
// broker being down never fails the sale; the event is logged and
// dropped.
func (h *TicketHandler) Purchase(c echo.Context) error {
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.TheaterID == "" || len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, theater_id and seats are required"})
	}
	if len(req.Seats) > 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 10 seats per order"})
	}
	email, err := utils.ValidateEmail(req.UserEmail)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	userName, err := utils.ValidateString(req.UserName, 1, 100)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var theaterName string
	for _, t := range m.Theaters {
		if t.ID == req.TheaterID {
			theaterName = t.Name
			break
		}
	}
	if theaterName == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found for movie"})
	}

	txID, err := utils.RandomHex(16)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "id generation failed"})
	}
	code, err := utils.NewConfirmationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "id generation failed"})
	}

	now := time.Now().UTC()
	order := model.TicketOrder{
		TransactionID:    "txn_" + txID,
		MovieID:          m.ID,
		TheaterID:        req.TheaterID,
		ShowtimeID:       req.ShowtimeID,
		Seats:            req.Seats,
		UserEmail:        email,
		UserName:         userName,
		UserPhone:        req.UserPhone,
		PaymentMethod:    req.PaymentMethod,
		Status:           model.OrderConfirmed,
		TotalAmountCents: uint32(len(req.Seats) * seatPriceCents),
		ConfirmationCode: code,
		ExpiresAt:        now.Add(24 * time.Hour),
	}
	if _, err := h.Orders.Insert(ctx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	event := queue.TicketPurchasedEvent{
		TransactionID:    order.TransactionID,
		MovieID:          m.ID,
		MovieTitle:       m.MovieTitle,
		TheaterID:        order.TheaterID,
		TheaterName:      theaterName,
		ShowtimeID:       order.ShowtimeID,
		Seats:            order.Seats,
		UserEmail:        order.UserEmail,
		TotalAmountCents: order.TotalAmountCents,
		ConfirmationCode: order.ConfirmationCode,
		PurchasedAt:      now.Format(time.RFC3339),
	}
	if err := queuepublisher.PublishTicketPurchased(ctx, event); err != nil {
		c.Logger().Errorf("publish ticket purchased: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"transaction_id":    order.TransactionID,
		"status":            order.Status,
		"confirmation_code": order.ConfirmationCode,
		"total_amount":      float64(order.TotalAmountCents) / 100,
		"seats":             order.Seats,
		"expires_at":        order.ExpiresAt,
	})
}

// GetTransaction returns the order behind a transaction id.
func (h *TicketHandler) GetTransaction(c echo.Context) error {
	txID := c.Param("id")
	if txID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.GetByTransactionID(ctx, txID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, o)
}

// ValidateTicket checks a confirmation code at the door.  A ticket is
// valid when the order is confirmed and not expired.
func (h *TicketHandler) ValidateTicket(c echo.Context) error {
	code := c.Param("ticket_id")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.GetByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found", "valid": false})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	valid := o.Status == model.OrderConfirmed && now.Before(o.ExpiresAt)
	return c.JSON(http.StatusOK, echo.Map{
		"valid":          valid,
		"status":         o.Status,
		"transaction_id": o.TransactionID,
		"movie_id":       o.MovieID,
		"theater_id":     o.TheaterID,
		"seats":          o.Seats,
		"expires_at":     o.ExpiresAt,
	})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/middleware"
	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/queue"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
	"github.com/iliyamo/railway-ticket-reservation/internal/service"
)

// TicketHandler exposes the ticket lifecycle over HTTP.  All methods
// require JWT authentication; the email claim is the passenger
// identity and every ticket operation is checked against it.
type TicketHandler struct {
	Svc       *service.TicketService
	TrainRepo *repository.TrainRepo
	WagonRepo *repository.WagonRepo
	SeatRepo  *repository.SeatRepo
}

// NewTicketHandler constructs a TicketHandler.  All dependencies must
// be non-nil.
func NewTicketHandler(svc *service.TicketService, trains *repository.TrainRepo, wagons *repository.WagonRepo, seats *repository.SeatRepo) *TicketHandler {
	if svc == nil || trains == nil || wagons == nil || seats == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Svc: svc, TrainRepo: trains, WagonRepo: wagons, SeatRepo: seats}
}

// ticketResponse is the JSON shape for a ticket.
type ticketResponse struct {
	ID               uint64  `json:"id"`
	TrainID          uint64  `json:"train_id"`
	WagonID          uint64  `json:"wagon_id"`
	SeatID           uint64  `json:"seat_id"`
	PassengerName    string  `json:"passenger_name"`
	PassengerEmail   string  `json:"passenger_email"`
	PassengerPhone   string  `json:"passenger_phone"`
	DiscountCategory string  `json:"discount_category"`
	DiscountPercent  float64 `json:"discount_percent"`
	BasePrice        float64 `json:"base_price"`
	FinalPrice       float64 `json:"final_price"`
	TicketNumber     string  `json:"ticket_number"`
	IsPaid           bool    `json:"is_paid"`
	DepartureTime    string  `json:"departure_time"`
	ArrivalTime      string  `json:"arrival_time"`
	CreatedAt        string  `json:"created_at"`
}

func toTicketResponse(t *model.Ticket) ticketResponse {
	return ticketResponse{
		ID:               t.ID,
		TrainID:          t.TrainID,
		WagonID:          t.WagonID,
		SeatID:           t.SeatID,
		PassengerName:    t.PassengerName,
		PassengerEmail:   t.PassengerEmail,
		PassengerPhone:   t.PassengerPhone,
		DiscountCategory: string(t.DiscountCategory),
		DiscountPercent:  t.DiscountPercent,
		BasePrice:        t.BasePrice,
		FinalPrice:       t.FinalPrice,
		TicketNumber:     t.TicketNumber,
		IsPaid:           t.IsPaid,
		DepartureTime:    t.DepartureTime.UTC().Format(time.RFC3339),
		ArrivalTime:      t.ArrivalTime.UTC().Format(time.RFC3339),
		CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/tickets.  The passenger may only book
// against their own authenticated email.  On success a ticket.issued
// event is published best effort; a broker outage never fails a
// booking that already committed.
func (h *TicketHandler) Create(c echo.Context) error {
	email := middleware.CurrentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TrainID          uint64 `json:"train_id"`
		WagonID          uint64 `json:"wagon_id"`
		SeatID           uint64 `json:"seat_id"`
		PassengerName    string `json:"passenger_name"`
		PassengerEmail   string `json:"passenger_email"`
		PassengerPhone   string `json:"passenger_phone"`
		DiscountCategory string `json:"discount_category"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PassengerEmail != email {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tickets can only be booked for your own email"})
	}
	category := model.DiscountCategory(body.DiscountCategory)
	if category == "" {
		category = model.DiscountNone
	}

	ticket, err := h.Svc.CreateTicket(c.Request().Context(), service.CreateTicketInput{
		TrainID:          body.TrainID,
		WagonID:          body.WagonID,
		SeatID:           body.SeatID,
		PassengerName:    body.PassengerName,
		PassengerEmail:   body.PassengerEmail,
		PassengerPhone:   body.PassengerPhone,
		DiscountCategory: category,
	})
	if err != nil {
		return writeError(c, err)
	}

	h.publishIssued(c, ticket)
	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// publishIssued emits the ticket.issued event.  Failures are logged
// and ignored.
func (h *TicketHandler) publishIssued(c echo.Context, t *model.Ticket) {
	ctx := c.Request().Context()
	ev := queue.TicketIssuedEvent{
		TicketID:      t.ID,
		TicketNumber:  t.TicketNumber,
		PassengerName: t.PassengerName,
		FinalPrice:    t.FinalPrice,
		DepartureTime: t.DepartureTime.UTC().Format(time.RFC3339),
		IssuedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if train, err := h.TrainRepo.GetByID(ctx, t.TrainID); err == nil {
		ev.TrainNumber = train.TrainNumber
		ev.RouteFrom = train.RouteFrom
		ev.RouteTo = train.RouteTo
	}
	if wagon, err := h.WagonRepo.GetByID(ctx, t.WagonID); err == nil {
		ev.WagonNumber = wagon.WagonNumber
	}
	if seat, err := h.SeatRepo.GetByID(ctx, t.SeatID); err == nil {
		ev.SeatNumber = seat.SeatNumber
	}
	if err := queue.PublishTicketIssued(ctx, ev); err != nil {
		c.Logger().Warnf("publish ticket.issued for %s: %v", t.TicketNumber, err)
	}
}

// List handles GET /v1/tickets and returns the caller's tickets, most
// recent first.
func (h *TicketHandler) List(c echo.Context) error {
	email := middleware.CurrentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Svc.ListUserTickets(c.Request().Context(), email)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResponse(&tickets[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/tickets/:id for the ticket's owner.
func (h *TicketHandler) Get(c echo.Context) error {
	email, ticketID, errResp := h.authAndID(c)
	if errResp != nil {
		return errResp(c)
	}
	ticket, err := h.Svc.GetTicket(c.Request().Context(), ticketID, email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// Receipt handles GET /v1/tickets/:id/receipt.  It renders the
// e-ticket: the ticket enriched with train, wagon and seat details.
func (h *TicketHandler) Receipt(c echo.Context) error {
	email, ticketID, errResp := h.authAndID(c)
	if errResp != nil {
		return errResp(c)
	}
	ctx := c.Request().Context()
	ticket, err := h.Svc.GetTicket(ctx, ticketID, email)
	if err != nil {
		return writeError(c, err)
	}
	train, err := h.TrainRepo.GetByID(ctx, ticket.TrainID)
	if err != nil {
		return writeError(c, err)
	}
	wagon, err := h.WagonRepo.GetByID(ctx, ticket.WagonID)
	if err != nil {
		return writeError(c, err)
	}
	seat, err := h.SeatRepo.GetByID(ctx, ticket.SeatID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ticket_number":     ticket.TicketNumber,
		"passenger_name":    ticket.PassengerName,
		"train_number":      train.TrainNumber,
		"wagon_number":      wagon.WagonNumber,
		"wagon_type":        string(wagon.WagonType),
		"seat_number":       seat.SeatNumber,
		"route_from":        train.RouteFrom,
		"route_to":          train.RouteTo,
		"departure_time":    ticket.DepartureTime.UTC().Format(time.RFC3339),
		"arrival_time":      ticket.ArrivalTime.UTC().Format(time.RFC3339),
		"discount_category": string(ticket.DiscountCategory),
		"discount_percent":  ticket.DiscountPercent,
		"base_price":        ticket.BasePrice,
		"final_price":       ticket.FinalPrice,
		"is_paid":           ticket.IsPaid,
		"issued_at":         ticket.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Cancel handles DELETE /v1/tickets/:id.  The seat is released before
// the ticket record is deleted, so a failure in between can only leave
// a freed seat, which a retried cancel resolves.
func (h *TicketHandler) Cancel(c echo.Context) error {
	email, ticketID, errResp := h.authAndID(c)
	if errResp != nil {
		return errResp(c)
	}
	if err := h.Svc.CancelTicket(c.Request().Context(), ticketID, email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket cancelled", "ticket_id": ticketID})
}

// Pay handles POST /v1/tickets/:id/pay.  Payment verification is
// external to this service; this endpoint only flips the flag.
func (h *TicketHandler) Pay(c echo.Context) error {
	email, ticketID, errResp := h.authAndID(c)
	if errResp != nil {
		return errResp(c)
	}
	ticket, err := h.Svc.PayTicket(c.Request().Context(), ticketID, email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// authAndID extracts the authenticated email and the :id path
// parameter, returning a ready error responder when either is invalid.
func (h *TicketHandler) authAndID(c echo.Context) (string, uint64, func(echo.Context) error) {
	email := middleware.CurrentEmail(c)
	if email == "" {
		return "", 0, func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
	}
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || ticketID == 0 {
		return "", 0, func(c echo.Context) error {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
		}
	}
	return email, ticketID, nil
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// WagonHandler serves seat layouts and availability for a single wagon.
type WagonHandler struct {
	WagonRepo *repository.WagonRepo
	SeatRepo  *repository.SeatRepo
}

// NewWagonHandler constructs a WagonHandler.  All dependencies must be non-nil.
func NewWagonHandler(wagons *repository.WagonRepo, seats *repository.SeatRepo) *WagonHandler {
	if wagons == nil || seats == nil {
		panic("nil repository passed to NewWagonHandler")
	}
	return &WagonHandler{WagonRepo: wagons, SeatRepo: seats}
}

// seatResponse is the JSON shape for a seat.  The state field exposes
// FREE or HELD; bookable is derived for client convenience.
type seatResponse struct {
	ID         uint64 `json:"id"`
	WagonID    uint64 `json:"wagon_id"`
	SeatNumber uint32 `json:"seat_number"`
	State      string `json:"state"`
	Bookable   bool   `json:"bookable"`
}

func toSeatResponses(seats []model.Seat) []seatResponse {
	out := make([]seatResponse, 0, len(seats))
	for i := range seats {
		s := &seats[i]
		out = append(out, seatResponse{
			ID:         s.ID,
			WagonID:    s.WagonID,
			SeatNumber: s.SeatNumber,
			State:      string(s.State),
			Bookable:   s.Bookable(),
		})
	}
	return out
}

// Layout handles GET /v1/wagons/:id/layout.  It returns every seat of
// the wagon ordered by seat number, including held ones.
func (h *WagonHandler) Layout(c echo.Context) error {
	wagonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || wagonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid wagon id"})
	}
	ctx := c.Request().Context()
	if _, err := h.WagonRepo.GetByID(ctx, wagonID); err != nil {
		return writeError(c, err)
	}
	seats, err := h.SeatRepo.ListByWagon(ctx, wagonID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// Available handles GET /v1/wagons/:id/available and returns only the
// Free seats of the wagon.
func (h *WagonHandler) Available(c echo.Context) error {
	wagonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || wagonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid wagon id"})
	}
	ctx := c.Request().Context()
	if _, err := h.WagonRepo.GetByID(ctx, wagonID); err != nil {
		return writeError(c, err)
	}
	seats, err := h.SeatRepo.ListAvailableByWagon(ctx, wagonID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

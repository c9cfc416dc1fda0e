package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// maxRouteLen bounds the origin/destination strings accepted by search.
const maxRouteLen = 100

// TrainHandler serves the public, read-only schedule surface: train
// search, train details and wagon listings.  No locking is involved;
// availability counts are a snapshot and may be stale by the time a
// booking is attempted.
type TrainHandler struct {
	TrainRepo *repository.TrainRepo
	WagonRepo *repository.WagonRepo
	SeatRepo  *repository.SeatRepo
}

// NewTrainHandler constructs a TrainHandler.  All dependencies must be non-nil.
func NewTrainHandler(trains *repository.TrainRepo, wagons *repository.WagonRepo, seats *repository.SeatRepo) *TrainHandler {
	if trains == nil || wagons == nil || seats == nil {
		panic("nil repository passed to NewTrainHandler")
	}
	return &TrainHandler{TrainRepo: trains, WagonRepo: wagons, SeatRepo: seats}
}

// trainResponse is the JSON shape for a train.
type trainResponse struct {
	ID            uint64  `json:"id"`
	TrainNumber   string  `json:"train_number"`
	RouteFrom     string  `json:"route_from"`
	RouteTo       string  `json:"route_to"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	DurationHours uint32  `json:"duration_hours"`
	BasePrice     float64 `json:"base_price"`
	IsActive      bool    `json:"is_active"`
}

// wagonResponse is the JSON shape for a wagon.
type wagonResponse struct {
	ID              uint64  `json:"id"`
	TrainID         uint64  `json:"train_id"`
	WagonNumber     uint32  `json:"wagon_number"`
	WagonType       string  `json:"wagon_type"`
	TotalSeats      uint32  `json:"total_seats"`
	PriceMultiplier float64 `json:"price_multiplier"`
	AvailableSeats  uint32  `json:"available_seats"`
}

// scheduleResponse is one search result: a train with its wagons and
// the total number of bookable seats across them.
type scheduleResponse struct {
	trainResponse
	AvailableSeats uint32          `json:"available_seats"`
	Wagons         []wagonResponse `json:"wagons"`
}

func toTrainResponse(t *model.Train) trainResponse {
	return trainResponse{
		ID:            t.ID,
		TrainNumber:   t.TrainNumber,
		RouteFrom:     t.RouteFrom,
		RouteTo:       t.RouteTo,
		DepartureTime: t.DepartureTime.UTC().Format(time.RFC3339),
		ArrivalTime:   t.ArrivalTime.UTC().Format(time.RFC3339),
		DurationHours: t.DurationHours,
		BasePrice:     t.BasePrice,
		IsActive:      t.IsActive,
	}
}

// Search handles GET /v1/trains/search?from=&to=.  Both route strings
// are required, trimmed and limited to 100 characters.  Each matching
// train is returned with its wagons and a seat-availability summary.
func (h *TrainHandler) Search(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to are required"})
	}
	if len(from) > maxRouteLen || len(to) > maxRouteLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route name too long"})
	}

	ctx := c.Request().Context()
	trains, err := h.TrainRepo.Search(ctx, from, to)
	if err != nil {
		return writeError(c, err)
	}

	result := make([]scheduleResponse, 0, len(trains))
	for i := range trains {
		t := &trains[i]
		wagons, err := h.WagonRepo.ListByTrain(ctx, t.ID)
		if err != nil {
			return writeError(c, err)
		}
		var totalAvailable uint32
		wagonResponses := make([]wagonResponse, 0, len(wagons))
		for _, w := range wagons {
			available, err := h.SeatRepo.CountAvailableByWagon(ctx, w.ID)
			if err != nil {
				return writeError(c, err)
			}
			totalAvailable += available
			wagonResponses = append(wagonResponses, wagonResponse{
				ID:              w.ID,
				TrainID:         w.TrainID,
				WagonNumber:     w.WagonNumber,
				WagonType:       string(w.WagonType),
				TotalSeats:      w.TotalSeats,
				PriceMultiplier: w.PriceMultiplier,
				AvailableSeats:  available,
			})
		}
		result = append(result, scheduleResponse{
			trainResponse:  toTrainResponse(t),
			AvailableSeats: totalAvailable,
			Wagons:         wagonResponses,
		})
	}
	return c.JSON(http.StatusOK, result)
}

// List handles GET /v1/trains and returns all active trains.
func (h *TrainHandler) List(c echo.Context) error {
	trains, err := h.TrainRepo.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]trainResponse, 0, len(trains))
	for i := range trains {
		out = append(out, toTrainResponse(&trains[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/trains/:id.
func (h *TrainHandler) Get(c echo.Context) error {
	trainID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || trainID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	train, err := h.TrainRepo.GetByID(c.Request().Context(), trainID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTrainResponse(train))
}

// Wagons handles GET /v1/trains/:id/wagons.
func (h *TrainHandler) Wagons(c echo.Context) error {
	trainID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || trainID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	ctx := c.Request().Context()
	if _, err := h.TrainRepo.GetByID(ctx, trainID); err != nil {
		return writeError(c, err)
	}
	wagons, err := h.WagonRepo.ListByTrain(ctx, trainID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.wagonList(c, wagons))
}

// WagonsByType handles GET /v1/trains/:id/wagons/type/:type.
func (h *TrainHandler) WagonsByType(c echo.Context) error {
	trainID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || trainID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	wagonType := model.WagonType(strings.ToLower(c.Param("type")))
	if !wagonType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown wagon type"})
	}
	ctx := c.Request().Context()
	if _, err := h.TrainRepo.GetByID(ctx, trainID); err != nil {
		return writeError(c, err)
	}
	wagons, err := h.WagonRepo.ListByTrainAndType(ctx, trainID, wagonType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.wagonList(c, wagons))
}

// wagonList converts wagons to responses with availability counts.
// Count errors degrade to zero rather than failing the listing.
func (h *TrainHandler) wagonList(c echo.Context, wagons []model.Wagon) []wagonResponse {
	out := make([]wagonResponse, 0, len(wagons))
	for _, w := range wagons {
		available, err := h.SeatRepo.CountAvailableByWagon(c.Request().Context(), w.ID)
		if err != nil {
			c.Logger().Warnf("count available seats for wagon %d: %v", w.ID, err)
			available = 0
		}
		out = append(out, wagonResponse{
			ID:              w.ID,
			TrainID:         w.TrainID,
			WagonNumber:     w.WagonNumber,
			WagonType:       string(w.WagonType),
			TotalSeats:      w.TotalSeats,
			PriceMultiplier: w.PriceMultiplier,
			AvailableSeats:  available,
		})
	}
	return out
}

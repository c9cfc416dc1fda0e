package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// AdminHandler covers fleet provisioning: creating trains and wagons.
// Routes using it sit behind the admin key middleware.
type AdminHandler struct {
	TrainRepo *repository.TrainRepo
	WagonRepo *repository.WagonRepo
	SeatRepo  *repository.SeatRepo
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(trains *repository.TrainRepo, wagons *repository.WagonRepo, seats *repository.SeatRepo) *AdminHandler {
	if trains == nil || wagons == nil || seats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{TrainRepo: trains, WagonRepo: wagons, SeatRepo: seats}
}

// CreateTrain handles POST /v1/admin/trains.
func (h *AdminHandler) CreateTrain(c echo.Context) error {
	var body struct {
		TrainNumber   string  `json:"train_number"`
		RouteFrom     string  `json:"route_from"`
		RouteTo       string  `json:"route_to"`
		DepartureTime string  `json:"departure_time"`
		ArrivalTime   string  `json:"arrival_time"`
		BasePrice     float64 `json:"base_price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.TrainNumber = strings.TrimSpace(body.TrainNumber)
	body.RouteFrom = strings.TrimSpace(body.RouteFrom)
	body.RouteTo = strings.TrimSpace(body.RouteTo)
	if body.TrainNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_number is required"})
	}
	if body.RouteFrom == "" || len(body.RouteFrom) > maxRouteLen ||
		body.RouteTo == "" || len(body.RouteTo) > maxRouteLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route stations must be 1-100 characters"})
	}
	if body.BasePrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price must be positive"})
	}
	departure, err := time.Parse(time.RFC3339, body.DepartureTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time must be RFC 3339"})
	}
	arrival, err := time.Parse(time.RFC3339, body.ArrivalTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be RFC 3339"})
	}
	if !arrival.After(departure) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be after departure_time"})
	}

	train := &model.Train{
		TrainNumber:   body.TrainNumber,
		RouteFrom:     body.RouteFrom,
		RouteTo:       body.RouteTo,
		DepartureTime: departure.UTC(),
		ArrivalTime:   arrival.UTC(),
		DurationHours: uint32(arrival.Sub(departure) / time.Hour),
		BasePrice:     body.BasePrice,
		IsActive:      true,
	}
	if err := h.TrainRepo.Create(c.Request().Context(), train); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toTrainResponse(train))
}

// CreateWagon handles POST /v1/admin/wagons.  Creating a wagon
// provisions its seats 1..total_seats, all free.
func (h *AdminHandler) CreateWagon(c echo.Context) error {
	var body struct {
		TrainID     uint64 `json:"train_id"`
		WagonNumber uint32 `json:"wagon_number"`
		WagonType   string `json:"wagon_type"`
		TotalSeats  uint32 `json:"total_seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	wagonType := model.WagonType(strings.ToLower(strings.TrimSpace(body.WagonType)))
	if !wagonType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "wagon_type must be platzkart, coupe or suite"})
	}
	if body.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}
	if body.WagonNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "wagon_number must be positive"})
	}

	ctx := c.Request().Context()
	if _, err := h.TrainRepo.GetByID(ctx, body.TrainID); err != nil {
		return writeError(c, err)
	}

	wagon := &model.Wagon{
		TrainID:         body.TrainID,
		WagonNumber:     body.WagonNumber,
		WagonType:       wagonType,
		TotalSeats:      body.TotalSeats,
		PriceMultiplier: wagonType.Multiplier(),
	}
	if err := h.WagonRepo.Create(ctx, wagon); err != nil {
		return writeError(c, err)
	}
	if err := h.SeatRepo.CreateBulk(ctx, wagon.ID, wagon.TotalSeats); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, wagonResponse{
		ID:              wagon.ID,
		TrainID:         wagon.TrainID,
		WagonNumber:     wagon.WagonNumber,
		WagonType:       string(wagon.WagonType),
		TotalSeats:      wagon.TotalSeats,
		PriceMultiplier: wagon.PriceMultiplier,
		AvailableSeats:  wagon.TotalSeats,
	})
}

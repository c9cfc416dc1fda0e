package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/service"
)

// QuoteHandler prices a prospective booking without touching any seat.
type QuoteHandler struct {
	Svc *service.TicketService
}

// NewQuoteHandler constructs a QuoteHandler.
func NewQuoteHandler(svc *service.TicketService) *QuoteHandler {
	if svc == nil {
		panic("nil service passed to NewQuoteHandler")
	}
	return &QuoteHandler{Svc: svc}
}

// Quote handles POST /v1/quote.  It returns the full price breakdown
// for a train/wagon/discount combination.
func (h *QuoteHandler) Quote(c echo.Context) error {
	var body struct {
		TrainID          uint64 `json:"train_id"`
		WagonID          uint64 `json:"wagon_id"`
		DiscountCategory string `json:"discount_category"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TrainID == 0 || body.WagonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_id and wagon_id are required"})
	}
	category := model.DiscountCategory(body.DiscountCategory)
	if category == "" {
		category = model.DiscountNone
	}
	quote, err := h.Svc.Quote(c.Request().Context(), body.TrainID, body.WagonID, category)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// Discounts handles GET /v1/discounts and lists the discount
// categories with their rates.
func (h *QuoteHandler) Discounts(c echo.Context) error {
	categories := []model.DiscountCategory{
		model.DiscountChild,
		model.DiscountStudent,
		model.DiscountPensioner,
		model.DiscountNone,
	}
	out := make([]echo.Map, 0, len(categories))
	for _, cat := range categories {
		out = append(out, echo.Map{
			"category":         string(cat),
			"discount_percent": service.DiscountRate(cat) * 100,
		})
	}
	return c.JSON(http.StatusOK, out)
}

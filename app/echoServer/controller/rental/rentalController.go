package rental

import (
	"log/slog"
	"net/http"
	"time"

	"clothingrental/app/echoServer/respond"
	rentalsvc "clothingrental/service/rental"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rentalsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/rentals
func (h *Controller) Create(c echo.Context) error {
	var req CreateRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	rentalDate, err := parseDate(req.RentalDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental_date"})
	}
	returnDate, err := parseDate(req.ReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid return_date"})
	}

	uid, _ := c.Get("user_id").(int64)

	items := make([]rentalsvc.CreateItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = rentalsvc.CreateItem{ClothingItemID: it.ClothingItemID, Quantity: it.Quantity}
	}

	out, err := h.Svc.Create(c.Request().Context(), uid, rentalsvc.CreateReq{
		RentalDate: rentalDate,
		ReturnDate: returnDate,
		Notes:      req.Notes,
		Items:      items,
	})
	if err != nil {
		return respond.Error(c, h.Log, "rental create", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Rental created successfully",
		"rental":  out,
	})
}

// GET /v1/rentals/my
func (h *Controller) MyRentals(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyRentals(c.Request().Context(), uid)
	if err != nil {
		return respond.Error(c, h.Log, "rental history", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	"clothingrental/app/echoServer/jwtx"
	"clothingrental/app/echoServer/respond"
	"clothingrental/model"
	paymentsvc "clothingrental/service/payment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc paymentsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payments
func (h *Controller) Record(c echo.Context) error {
	var req RecordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, r, err := h.Svc.Record(c.Request().Context(), req.RentalID, req.Amount,
		model.PaymentMethod(req.Method), req.TransactionReference)
	if err != nil {
		return respond.Error(c, h.Log, "payment record", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Payment recorded successfully",
		"payment": p,
		"rental":  r,
	})
}

// POST /v1/payments/cash
func (h *Controller) CreateCash(c echo.Context) error {
	var req CreateCashPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, r, ref, err := h.Svc.CreateCash(c.Request().Context(), req.RentalID, req.Amount)
	if err != nil {
		return respond.Error(c, h.Log, "cash payment create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":           "Cash payment created successfully",
		"payment":           p,
		"rental":            r,
		"payment_reference": ref,
	})
}

// POST /v1/admin/payments/confirm-cash/:rentalId
func (h *Controller) ConfirmCash(c echo.Context) error {
	rentalID, err := strconv.ParseInt(c.Param("rentalId"), 10, 64)
	if err != nil || rentalID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental id"})
	}

	var req ConfirmCashPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, r, err := h.Svc.ConfirmCash(c.Request().Context(), rentalID,
		jwtx.ActorFromContext(c), req.AmountReceived, req.Notes)
	if err != nil {
		return respond.Error(c, h.Log, "cash payment confirm", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Cash payment confirmed successfully",
		"payment": p,
		"rental":  r,
	})
}

// POST /v1/payments/card
func (h *Controller) ProcessCard(c echo.Context) error {
	var req ProcessCardPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, r, err := h.Svc.ProcessCard(c.Request().Context(), req.RentalID, req.Amount,
		req.StripePaymentID, req.PaymentIntentID)
	if err != nil {
		return respond.Error(c, h.Log, "card payment process", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Card payment processed successfully",
		"payment": p,
		"rental":  r,
	})
}

// GET /v1/payments/status/:rentalId
func (h *Controller) Status(c echo.Context) error {
	rentalID, err := strconv.ParseInt(c.Param("rentalId"), 10, 64)
	if err != nil || rentalID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental id"})
	}

	view, err := h.Svc.Status(c.Request().Context(), rentalID)
	if err != nil {
		return respond.Error(c, h.Log, "payment status", err)
	}
	return c.JSON(http.StatusOK, view)
}

// GET /v1/admin/payments/pending-cash
func (h *Controller) PendingCash(c echo.Context) error {
	rows, err := h.Svc.PendingCash(c.Request().Context())
	if err != nil {
		return respond.Error(c, h.Log, "pending cash list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_payments": rows})
}

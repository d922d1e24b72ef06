package clothing

import (
	"log/slog"
	"net/http"
	"strconv"

	"clothingrental/app/echoServer/respond"
	"clothingrental/model"
	catalogsvc "clothingrental/service/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/clothing
func (h *Controller) List(c echo.Context) error {
	var f catalogsvc.Filter
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category_id"})
		}
		f.CategoryID = &id
	}
	if v := c.QueryParam("size"); v != "" {
		f.Size = &v
	}
	if v := c.QueryParam("status"); v != "" {
		f.Status = &v
	}
	if v := c.QueryParam("search"); v != "" {
		f.Search = &v
	}
	f.Limit = 10
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			f.Offset = (n - 1) * f.Limit
		}
	}

	items, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		return respond.Error(c, h.Log, "clothing list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GET /v1/clothing/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	it, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return respond.Error(c, h.Log, "clothing detail", err)
	}
	return c.JSON(http.StatusOK, it)
}

// POST /v1/clothing
func (h *Controller) Create(c echo.Context) error {
	var req ItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	it, err := h.Svc.Create(c.Request().Context(), toModel(&req, 0))
	if err != nil {
		return respond.Error(c, h.Log, "clothing create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Clothing item created successfully",
		"data":    it,
	})
}

// PUT /v1/clothing/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req ItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	it, err := h.Svc.Update(c.Request().Context(), toModel(&req, id))
	if err != nil {
		return respond.Error(c, h.Log, "clothing update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Clothing item updated successfully",
		"data":    it,
	})
}

// DELETE /v1/clothing/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return respond.Error(c, h.Log, "clothing delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Clothing item deleted successfully"})
}

func toModel(req *ItemReq, id int64) *model.ClothingItem {
	it := &model.ClothingItem{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Size:          req.Size,
		Color:         req.Color,
		Brand:         req.Brand,
		PricePerDay:   req.PricePerDay,
		DepositAmount: req.DepositAmount,
	}
	if req.Status != nil {
		it.Status = model.ItemStatus(*req.Status)
	}
	if req.Condition != nil {
		it.Condition = *req.Condition
	}
	return it
}

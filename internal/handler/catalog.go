package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/repository"
)

// CatalogHandler serves the payment method and day classification catalogs.
// Lists are served from the catalog cache.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(r *repository.CatalogRepo) *CatalogHandler {
	if r == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: r}
}

// ListPaymentMethods handles GET /v1/payment-methods.
func (h *CatalogHandler) ListPaymentMethods(c echo.Context) error {
	ms, err := h.Catalog.ListPaymentMethods(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if ms == nil {
		ms = []model.PaymentMethod{}
	}
	return c.JSON(http.StatusOK, ms)
}

// GetPaymentMethod handles GET /v1/payment-methods/:id.
func (h *CatalogHandler) GetPaymentMethod(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid payment method id")
	}
	m, err := h.Catalog.GetPaymentMethod(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// CreatePaymentMethod handles POST /v1/payment-methods.
func (h *CatalogHandler) CreatePaymentMethod(c echo.Context) error {
	var body model.PaymentMethod
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.ID = 0
	m, err := h.Catalog.CreatePaymentMethod(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// UpdatePaymentMethod handles PUT /v1/payment-methods/:id.
func (h *CatalogHandler) UpdatePaymentMethod(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid payment method id")
	}
	body := model.PaymentMethod{ID: id}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Catalog.UpdatePaymentMethod(c.Request().Context(), id, body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeletePaymentMethod handles DELETE /v1/payment-methods/:id. A method still
// accepted by some lot cannot be deleted.
func (h *CatalogHandler) DeletePaymentMethod(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid payment method id")
	}
	if err := h.Catalog.DeletePaymentMethod(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDayClassifications handles GET /v1/day-classifications.
func (h *CatalogHandler) ListDayClassifications(c echo.Context) error {
	ds, err := h.Catalog.ListDayClassifications(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if ds == nil {
		ds = []model.DayClassification{}
	}
	return c.JSON(http.StatusOK, ds)
}

// GetDayClassification handles GET /v1/day-classifications/:id.
func (h *CatalogHandler) GetDayClassification(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid day classification id")
	}
	d, err := h.Catalog.GetDayClassification(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// CreateDayClassification handles POST /v1/day-classifications.
func (h *CatalogHandler) CreateDayClassification(c echo.Context) error {
	var body model.DayClassification
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.ID = 0
	d, err := h.Catalog.CreateDayClassification(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// UpdateDayClassification handles PUT /v1/day-classifications/:id.
func (h *CatalogHandler) UpdateDayClassification(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid day classification id")
	}
	body := model.DayClassification{ID: id}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Catalog.UpdateDayClassification(c.Request().Context(), id, body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeleteDayClassification handles DELETE /v1/day-classifications/:id.
func (h *CatalogHandler) DeleteDayClassification(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid day classification id")
	}
	if err := h.Catalog.DeleteDayClassification(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

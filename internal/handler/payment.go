package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
)

// CreatePayment handles POST /v1/payments. The (lot, method) pair must be an
// enabled accepted payment method of the lot.
func (h *RegistryHandler) CreatePayment(c echo.Context) error {
	var body model.Payment
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Payments.Create(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// GetPayment handles GET /v1/payments/:id.
func (h *RegistryHandler) GetPayment(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid payment id")
	}
	p, err := h.Payments.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListLotPayments handles GET /v1/lots/:id/payments.
func (h *RegistryHandler) ListLotPayments(c echo.Context) error {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	ps, err := h.Payments.ListByLot(c.Request().Context(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	if ps == nil {
		ps = []model.Payment{}
	}
	return c.JSON(http.StatusOK, ps)
}

// UpdatePayment handles PUT /v1/payments/:id.
func (h *RegistryHandler) UpdatePayment(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid payment id")
	}
	body := model.Payment{ID: id}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Payments.Update(c.Request().Context(), id, body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeletePayment handles DELETE /v1/payments/:id.
func (h *RegistryHandler) DeletePayment(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid payment id")
	}
	if err := h.Payments.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

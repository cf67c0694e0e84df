package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
)

func acceptedKey(c echo.Context) (model.AcceptedMethodKey, bool) {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return model.AcceptedMethodKey{}, false
	}
	methodID, ok := paramInt64(c, "method")
	if !ok {
		return model.AcceptedMethodKey{}, false
	}
	return model.AcceptedMethodKey{LotID: lotID, PaymentMethodID: methodID}, true
}

// CreateAcceptedMethod handles POST /v1/accepted-payment-methods.
func (h *RegistryHandler) CreateAcceptedMethod(c echo.Context) error {
	var body model.AcceptedPaymentMethod
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Accepted.Create(c.Request().Context(), body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, body)
}

// GetAcceptedMethod handles GET /v1/lots/:id/payment-methods/:method and
// resolves both the lot and the catalog entry.
func (h *RegistryHandler) GetAcceptedMethod(c echo.Context) error {
	k, ok := acceptedKey(c)
	if !ok {
		return badRequest(c, "invalid accepted payment method key")
	}
	d, err := h.Accepted.GetDetail(c.Request().Context(), k)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListAcceptedMethods handles GET /v1/lots/:id/payment-methods.
func (h *RegistryHandler) ListAcceptedMethods(c echo.Context) error {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	as, err := h.Accepted.ListByLot(c.Request().Context(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	if as == nil {
		as = []model.AcceptedPaymentMethod{}
	}
	return c.JSON(http.StatusOK, as)
}

// UpdateAcceptedMethod handles PUT /v1/lots/:id/payment-methods/:method.
// Only the enabled flag can change.
func (h *RegistryHandler) UpdateAcceptedMethod(c echo.Context) error {
	k, ok := acceptedKey(c)
	if !ok {
		return badRequest(c, "invalid accepted payment method key")
	}
	body := model.AcceptedPaymentMethod{LotID: k.LotID, PaymentMethodID: k.PaymentMethodID}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Accepted.Update(c.Request().Context(), k, body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeleteAcceptedMethod handles DELETE /v1/lots/:id/payment-methods/:method.
// It fails with 409 while payments reference the association.
func (h *RegistryHandler) DeleteAcceptedMethod(c echo.Context) error {
	k, ok := acceptedKey(c)
	if !ok {
		return badRequest(c, "invalid accepted payment method key")
	}
	if err := h.Accepted.Delete(c.Request().Context(), k); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
)

// CreateLot handles POST /v1/lots. The id is always generated by the store.
func (h *RegistryHandler) CreateLot(c echo.Context) error {
	var body model.Lot
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	lot, err := h.Lots.Create(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, lot)
}

// GetLot handles GET /v1/lots/:id.
func (h *RegistryHandler) GetLot(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	lot, err := h.Lots.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lot": lot, "label": lot.Label()})
}

// ListLots handles GET /v1/lots.
func (h *RegistryHandler) ListLots(c echo.Context) error {
	lots, err := h.Lots.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if lots == nil {
		lots = []model.Lot{}
	}
	return c.JSON(http.StatusOK, lots)
}

// UpdateLot handles PUT /v1/lots/:id. The body may omit the id; if it
// carries a different one the update is rejected as a key change.
func (h *RegistryHandler) UpdateLot(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	body := model.Lot{ID: id}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Lots.Update(c.Request().Context(), id, body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeleteLot handles DELETE /v1/lots/:id. Spots, schedules and accepted
// payment methods of the lot go with it.
func (h *RegistryHandler) DeleteLot(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	if err := h.Lots.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
)

// spotKey reads the (lot, number) identity from /lots/:id/spots/:number.
func spotKey(c echo.Context) (model.SpotKey, bool) {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return model.SpotKey{}, false
	}
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return model.SpotKey{}, false
	}
	return model.SpotKey{LotID: lotID, Number: n}, true
}

// CreateSpot handles POST /v1/spots. A number already used in the lot is a
// 409 on the "number" field.
func (h *RegistryHandler) CreateSpot(c echo.Context) error {
	var body model.ParkingSpot
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Spots.Create(c.Request().Context(), body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, body)
}

// GetSpot handles GET /v1/lots/:id/spots/:number and includes the lot.
func (h *RegistryHandler) GetSpot(c echo.Context) error {
	k, ok := spotKey(c)
	if !ok {
		return badRequest(c, "invalid spot key")
	}
	d, err := h.Spots.GetDetail(c.Request().Context(), k)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListSpots handles GET /v1/lots/:id/spots.
func (h *RegistryHandler) ListSpots(c echo.Context) error {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	spots, err := h.Spots.ListByLot(c.Request().Context(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	if spots == nil {
		spots = []model.ParkingSpot{}
	}
	return c.JSON(http.StatusOK, spots)
}

// UpdateSpot handles PUT /v1/lots/:id/spots/:number. The key comes from the
// path; a body that names another lot or number is rejected.
func (h *RegistryHandler) UpdateSpot(c echo.Context) error {
	k, ok := spotKey(c)
	if !ok {
		return badRequest(c, "invalid spot key")
	}
	body := model.ParkingSpot{LotID: k.LotID, Number: k.Number}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Spots.Update(c.Request().Context(), k, body); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeleteSpot handles DELETE /v1/lots/:id/spots/:number.
func (h *RegistryHandler) DeleteSpot(c echo.Context) error {
	k, ok := spotKey(c)
	if !ok {
		return badRequest(c, "invalid spot key")
	}
	if err := h.Spots.Delete(c.Request().Context(), k); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

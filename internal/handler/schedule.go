package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
)

// scheduleKey reads /lots/:id/schedules/:day/:start where start is an
// RFC 3339 instant. Instants in any zone address the same schedule.
func scheduleKey(c echo.Context) (model.ScheduleKey, bool) {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return model.ScheduleKey{}, false
	}
	day, ok := paramInt64(c, "day")
	if !ok {
		return model.ScheduleKey{}, false
	}
	raw := c.Param("start")
	if s, err := url.PathUnescape(raw); err == nil {
		raw = s
	}
	start, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return model.ScheduleKey{}, false
	}
	return model.ScheduleKey{LotID: lotID, DayClassificationID: day, Start: start}, true
}

// CreateSchedule handles POST /v1/schedules. The stored start is normalized
// to UTC seconds and returned so clients can address the row afterwards.
func (h *RegistryHandler) CreateSchedule(c echo.Context) error {
	var body model.Schedule
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	s, err := h.Schedules.Create(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// GetSchedule handles GET /v1/lots/:id/schedules/:day/:start.
func (h *RegistryHandler) GetSchedule(c echo.Context) error {
	k, ok := scheduleKey(c)
	if !ok {
		return badRequest(c, "invalid schedule key")
	}
	d, err := h.Schedules.GetDetail(c.Request().Context(), k)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListSchedules handles GET /v1/lots/:id/schedules.
func (h *RegistryHandler) ListSchedules(c echo.Context) error {
	lotID, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid lot id")
	}
	ss, err := h.Schedules.ListByLot(c.Request().Context(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	if ss == nil {
		ss = []model.Schedule{}
	}
	return c.JSON(http.StatusOK, ss)
}

// UpdateSchedule handles PUT /v1/lots/:id/schedules/:day/:start. Only the
// end of the window can change; a new start is a new schedule.
func (h *RegistryHandler) UpdateSchedule(c echo.Context) error {
	k, ok := scheduleKey(c)
	if !ok {
		return badRequest(c, "invalid schedule key")
	}
	body := model.Schedule{LotID: k.LotID, DayClassificationID: k.DayClassificationID, Start: k.Start}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Schedules.Update(c.Request().Context(), k, body); err != nil {
		return writeError(c, err)
	}
	body.Start, body.End = model.NormalizeStart(body.Start), model.NormalizeStart(body.End)
	return c.JSON(http.StatusOK, body)
}

// DeleteSchedule handles DELETE /v1/lots/:id/schedules/:day/:start.
func (h *RegistryHandler) DeleteSchedule(c echo.Context) error {
	k, ok := scheduleKey(c)
	if !ok {
		return badRequest(c, "invalid schedule key")
	}
	if err := h.Schedules.Delete(c.Request().Context(), k); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

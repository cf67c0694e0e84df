package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/logger"
	"github.com/iliyamo/parking-registry/internal/repository"
)

// writeError maps a repository error onto its HTTP response. Validation and
// integrity conflicts carry enough detail for the client to correct the
// request and retry.
func writeError(c echo.Context, err error) error {
	var (
		ve *repository.ValidationError
		ie *repository.IntegrityError
		ke *repository.KeyImmutableError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusConflict, echo.Map{"error": ve.Message, "field": ve.Field, "input": ve.Input})
	case errors.As(err, &ke):
		return c.JSON(http.StatusConflict, echo.Map{"error": ke.Error(), "fields": ke.Fields})
	case errors.As(err, &ie):
		return c.JSON(http.StatusConflict, echo.Map{"error": "integrity conflict", "cause": ie.Cause})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	logger.Named("http").Error("unhandled error",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// paramInt64 parses a positive integer path parameter.
func paramInt64(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

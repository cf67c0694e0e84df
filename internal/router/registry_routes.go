package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/handler"
)

// RegisterRegistry registers lots and every record scoped to a lot under /v1.
// Composite identities are addressed through nested path segments below the
// lot; creation goes through flat collections carrying the full key in the
// body.
func RegisterRegistry(e *echo.Echo, r *handler.RegistryHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	// ---- Lots ----
	g.GET("/lots", r.ListLots)
	g.POST("/lots", r.CreateLot)
	g.GET("/lots/:id", r.GetLot)
	g.PUT("/lots/:id", r.UpdateLot)
	g.DELETE("/lots/:id", r.DeleteLot)

	// ---- Spots (lot, number) ----
	g.POST("/spots", r.CreateSpot)
	g.GET("/lots/:id/spots", r.ListSpots)
	g.GET("/lots/:id/spots/:number", r.GetSpot)
	g.PUT("/lots/:id/spots/:number", r.UpdateSpot)
	g.DELETE("/lots/:id/spots/:number", r.DeleteSpot)

	// ---- Accepted payment methods (lot, method) ----
	g.POST("/accepted-payment-methods", r.CreateAcceptedMethod)
	g.GET("/lots/:id/payment-methods", r.ListAcceptedMethods)
	g.GET("/lots/:id/payment-methods/:method", r.GetAcceptedMethod)
	g.PUT("/lots/:id/payment-methods/:method", r.UpdateAcceptedMethod)
	g.DELETE("/lots/:id/payment-methods/:method", r.DeleteAcceptedMethod)

	// ---- Schedules (lot, day classification, start) ----
	g.POST("/schedules", r.CreateSchedule)
	g.GET("/lots/:id/schedules", r.ListSchedules)
	g.GET("/lots/:id/schedules/:day/:start", r.GetSchedule)
	g.PUT("/lots/:id/schedules/:day/:start", r.UpdateSchedule)
	g.DELETE("/lots/:id/schedules/:day/:start", r.DeleteSchedule)

	// ---- Payments ----
	g.POST("/payments", r.CreatePayment)
	g.GET("/lots/:id/payments", r.ListLotPayments)
	g.GET("/payments/:id", r.GetPayment)
	g.PUT("/payments/:id", r.UpdatePayment)
	g.DELETE("/payments/:id", r.DeletePayment)
}

// RegisterCatalog registers the payment method and day classification
// catalogs.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	g.GET("/payment-methods", h.ListPaymentMethods)
	g.POST("/payment-methods", h.CreatePaymentMethod)
	g.GET("/payment-methods/:id", h.GetPaymentMethod)
	g.PUT("/payment-methods/:id", h.UpdatePaymentMethod)
	g.DELETE("/payment-methods/:id", h.DeletePaymentMethod)

	g.GET("/day-classifications", h.ListDayClassifications)
	g.POST("/day-classifications", h.CreateDayClassification)
	g.GET("/day-classifications/:id", h.GetDayClassification)
	g.PUT("/day-classifications/:id", h.UpdateDayClassification)
	g.DELETE("/day-classifications/:id", h.DeleteDayClassification)
}

package handler // handler contains the HTTP handlers of the registry API

import (
	"github.com/iliyamo/parking-registry/internal/repository"
)

// RegistryHandler bundles the repositories of lots and of every record scoped
// to a lot.
type RegistryHandler struct {
	Lots      *repository.LotRepo            // lots
	Spots     *repository.SpotRepo           // spots keyed by (lot, number)
	Accepted  *repository.AcceptedMethodRepo // payment methods accepted per lot
	Schedules *repository.ScheduleRepo       // opening windows per lot
	Payments  *repository.PaymentRepo        // payments collected per lot
}

// NewRegistryHandler constructs a RegistryHandler and panics if any
// dependency is nil.
func NewRegistryHandler(lots *repository.LotRepo, spots *repository.SpotRepo, accepted *repository.AcceptedMethodRepo, schedules *repository.ScheduleRepo, payments *repository.PaymentRepo) *RegistryHandler {
	if lots == nil || spots == nil || accepted == nil || schedules == nil || payments == nil {
		panic("nil repository passed to NewRegistryHandler")
	}
	return &RegistryHandler{
		Lots:      lots,
		Spots:     spots,
		Accepted:  accepted,
		Schedules: schedules,
		Payments:  payments,
	}
}

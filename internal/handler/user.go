package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/repository"
)

// UserHandler bundles dependencies for user endpoints. Owners and drivers
// share one identity space, so /v1/users/:id addresses either.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	if u == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: u}
}

// ----- DTOs -----

type ownerReq struct {
	model.Profile
	TaxID string `json:"tax_id"`
}

type updateUserReq struct {
	ID       int64      `json:"id"`
	Role     model.Role `json:"role"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Password string     `json:"password"` // empty keeps the current password
	TaxID    string     `json:"tax_id"`
}

// userResp is the wire form of either variant. The password hash is never
// serialized.
type userResp struct {
	model.Usuario
	Role  model.Role `json:"role"`
	TaxID string     `json:"tax_id,omitempty"`
}

func toUserResp(a model.Account) userResp {
	resp := userResp{Usuario: a.Base(), Role: a.Role()}
	if o, ok := a.(*model.Owner); ok {
		resp.TaxID = o.TaxID
	}
	return resp
}

// CreateOwner handles POST /v1/owners.
func (h *UserHandler) CreateOwner(c echo.Context) error {
	var req ownerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Users.CreateOwner(ctx, req.Profile, req.TaxID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResp(o))
}

// CreateDriver handles POST /v1/drivers.
func (h *UserHandler) CreateDriver(c echo.Context) error {
	var req model.Profile
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Users.CreateDriver(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResp(d))
}

// GetUser handles GET /v1/users/:id and reports which variant holds the id.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	a, err := h.Users.ResolveByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(a))
}

// UpdateUser handles PUT /v1/users/:id. Fields left out of the body keep
// their stored values; role may be sent but cannot change.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Users.ResolveByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	base := cur.Base()
	req := updateUserReq{ID: id, Role: cur.Role(), Name: base.Name, Email: base.Email, Phone: base.Phone}
	if o, ok := cur.(*model.Owner); ok {
		req.TaxID = o.TaxID
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	u := model.Usuario{ID: req.ID, Name: req.Name, Email: req.Email, Phone: req.Phone}
	var a model.Account
	switch model.Role(strings.ToLower(string(req.Role))) {
	case model.RoleOwner:
		a = &model.Owner{Usuario: u, TaxID: req.TaxID}
	case model.RoleDriver:
		a = &model.Driver{Usuario: u}
	default:
		return badRequest(c, "role must be owner or driver")
	}

	out, err := h.Users.Update(ctx, id, a, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(out))
}

// DeleteUser handles DELETE /v1/users/:id.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers handles GET /v1/users.
func (h *UserHandler) ListUsers(c echo.Context) error {
	as, err := h.Users.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]userResp, 0, len(as))
	for _, a := range as {
		out = append(out, toUserResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// ListOwners handles GET /v1/owners.
func (h *UserHandler) ListOwners(c echo.Context) error {
	owners, err := h.Users.ListOwners(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]userResp, 0, len(owners))
	for _, o := range owners {
		out = append(out, toUserResp(o))
	}
	return c.JSON(http.StatusOK, out)
}

// ListDrivers handles GET /v1/drivers.
func (h *UserHandler) ListDrivers(c echo.Context) error {
	ds, err := h.Users.ListDrivers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]userResp, 0, len(ds))
	for _, d := range ds {
		out = append(out, toUserResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

package repository

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
	"github.com/iliyamo/parking-registry/internal/utils"
)

const minPasswordLen = 6

// UserRepo resolves user identities to their owner or driver variant. Both
// variants share one ID space and one email index; creating either writes a
// single row, so a variant never exists without its identity.
type UserRepo struct {
	base
	users store.Table[int64, model.UserRecord]
	cost  int
}

// NewUserRepo constructs a UserRepo. Passwords are hashed with bcrypt at the
// given cost (bcrypt.DefaultCost when out of range).
func NewUserRepo(s *store.Store, bcryptCost int, opts ...Option) *UserRepo {
	return &UserRepo{base: newBase(opts), users: s.Users, cost: utils.NormalizeCost(bcryptCost)}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func validateProfile(u model.Usuario) error {
	if strings.TrimSpace(u.Name) == "" {
		return invalid(model.KindUser, "name", u.Name, "is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || !strings.Contains(u.Email, "@") {
		return invalid(model.KindUser, "email", u.Email, "is not a valid address")
	}
	return nil
}

func validatePassword(p string) error {
	switch {
	case len(p) < minPasswordLen:
		return invalid(model.KindUser, "password", nil, "must have at least 6 characters")
	case len(p) > utils.MaxPasswordBytes:
		return invalid(model.KindUser, "password", nil, "must have at most 72 bytes")
	}
	return nil
}

// CreateOwner registers a new owner identity.
func (r *UserRepo) CreateOwner(ctx context.Context, p model.Profile, taxID string) (o *model.Owner, err error) {
	defer r.track(model.KindUser, opCreate, time.Now(), &err)
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, invalid(model.KindUser, "tax_id", taxID, "is required for owners")
	}
	rec, err := r.create(ctx, p, model.RoleOwner, taxID)
	if err != nil {
		return nil, err
	}
	return rec.Account().(*model.Owner), nil
}

// CreateDriver registers a new driver identity.
func (r *UserRepo) CreateDriver(ctx context.Context, p model.Profile) (d *model.Driver, err error) {
	defer r.track(model.KindUser, opCreate, time.Now(), &err)
	rec, err := r.create(ctx, p, model.RoleDriver, "")
	if err != nil {
		return nil, err
	}
	return rec.Account().(*model.Driver), nil
}

func (r *UserRepo) create(ctx context.Context, p model.Profile, role model.Role, taxID string) (model.UserRecord, error) {
	rec := model.UserRecord{
		Usuario: model.Usuario{Name: strings.TrimSpace(p.Name), Email: normalizeEmail(p.Email), Phone: strings.TrimSpace(p.Phone)},
		Role:    role,
		TaxID:   taxID,
	}
	if err := validateProfile(rec.Usuario); err != nil {
		return rec, err
	}
	if err := validatePassword(p.Password); err != nil {
		return rec, err
	}
	if err := CheckEmail(ctx, r.users, rec.Email, 0); err != nil {
		return rec, err
	}
	hash, err := utils.HashPassword(p.Password, r.cost)
	if err != nil {
		return rec, err
	}
	rec.PasswordHash = hash

	out, err := r.users.Insert(ctx, rec)
	if err != nil {
		return rec, translate(model.KindUser, opCreate, rec.Email, err)
	}
	r.emit(ctx, model.KindUser, events.OpCreate, out.Key())
	return out, nil
}

// ResolveByID returns the identity id as *model.Owner or *model.Driver.
func (r *UserRepo) ResolveByID(ctx context.Context, id int64) (a model.Account, err error) {
	defer r.track(model.KindUser, opRead, time.Now(), &err)
	rec, err := get(ctx, r.users, model.KindUser, id, model.IDKey(id))
	if err != nil {
		return nil, err
	}
	return rec.Account(), nil
}

// Update replaces the profile of identity id with a's. The variant of a must
// match the stored one, since an identity never changes subtype. A non-empty
// password replaces the stored hash; an empty one keeps it. The email
// uniqueness check only runs when the email changes.
func (r *UserRepo) Update(ctx context.Context, id int64, a model.Account, password string) (out model.Account, err error) {
	defer r.track(model.KindUser, opUpdate, time.Now(), &err)
	rec := model.RecordOf(a)
	if rec.Role == "" {
		return nil, invalid(model.KindUser, "role", nil, "is required")
	}
	if err = CheckKeyUnchanged(model.KindUser, model.IDKey(id), rec.Key()); err != nil {
		return nil, err
	}
	cur, err := get(ctx, r.users, model.KindUser, id, model.IDKey(id))
	if err != nil {
		return nil, err
	}
	if cur.Role != rec.Role {
		return nil, invalid(model.KindUser, "role", rec.Role, "cannot change between owner and driver")
	}

	rec.Name = strings.TrimSpace(rec.Name)
	rec.Email = normalizeEmail(rec.Email)
	rec.Phone = strings.TrimSpace(rec.Phone)
	rec.TaxID = strings.TrimSpace(rec.TaxID)
	if err = validateProfile(rec.Usuario); err != nil {
		return nil, err
	}
	if rec.Role == model.RoleOwner && rec.TaxID == "" {
		return nil, invalid(model.KindUser, "tax_id", rec.TaxID, "is required for owners")
	}
	if rec.Email != cur.Email {
		if err = CheckEmail(ctx, r.users, rec.Email, id); err != nil {
			return nil, err
		}
	}
	rec.PasswordHash = cur.PasswordHash
	if password != "" {
		if err = validatePassword(password); err != nil {
			return nil, err
		}
		if rec.PasswordHash, err = utils.HashPassword(password, r.cost); err != nil {
			return nil, err
		}
	}

	if err = update(ctx, r.users, model.KindUser, rec, rec.Key(), rec.Email); err != nil {
		return nil, err
	}
	r.emit(ctx, model.KindUser, events.OpUpdate, rec.Key())
	return rec.Account(), nil
}

// Delete removes identity id, whichever subtype holds it.
func (r *UserRepo) Delete(ctx context.Context, id int64) (err error) {
	defer r.track(model.KindUser, opDelete, time.Now(), &err)
	if err = remove(ctx, r.users, model.KindUser, id, model.IDKey(id)); err != nil {
		return err
	}
	r.emit(ctx, model.KindUser, events.OpDelete, model.IDKey(id))
	return nil
}

// List returns every user of either subtype ordered by name.
func (r *UserRepo) List(ctx context.Context) (as []model.Account, err error) {
	defer r.track(model.KindUser, opList, time.Now(), &err)
	recs, err := list(ctx, r.users, model.KindUser)
	if err != nil {
		return nil, err
	}
	as = make([]model.Account, 0, len(recs))
	for _, rec := range recs {
		if a := rec.Account(); a != nil {
			as = append(as, a)
		}
	}
	return as, nil
}

// ListOwners returns the owner partition ordered by name.
func (r *UserRepo) ListOwners(ctx context.Context) (owners []*model.Owner, err error) {
	defer r.track(model.KindUser, opList, time.Now(), &err)
	recs, err := list(ctx, r.users, model.KindUser, store.Eq("role", string(model.RoleOwner)))
	if err != nil {
		return nil, err
	}
	owners = make([]*model.Owner, 0, len(recs))
	for _, rec := range recs {
		owners = append(owners, rec.Account().(*model.Owner))
	}
	return owners, nil
}

// ListDrivers returns the driver partition ordered by name.
func (r *UserRepo) ListDrivers(ctx context.Context) (ds []*model.Driver, err error) {
	defer r.track(model.KindUser, opList, time.Now(), &err)
	recs, err := list(ctx, r.users, model.KindUser, store.Eq("role", string(model.RoleDriver)))
	if err != nil {
		return nil, err
	}
	ds = make([]*model.Driver, 0, len(recs))
	for _, rec := range recs {
		ds = append(ds, rec.Account().(*model.Driver))
	}
	return ds, nil
}

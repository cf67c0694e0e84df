package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/utils"
)

func profile(name, email string) model.Profile {
	return model.Profile{Name: name, Email: email, Password: "secret1", Phone: "341-555"}
}

func TestOwnerThenDriverWithSameEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// fill IDs 1..9 so the owner receives 10
	for i := 1; i <= 9; i++ {
		_, err := f.users.CreateDriver(ctx, profile("Driver", fmt.Sprintf("d%d@x.com", i)))
		require.NoError(t, err)
	}

	o, err := f.users.CreateOwner(ctx, profile("Ana", "a@x.com"), "20-12345678-3")
	require.NoError(t, err)
	assert.Equal(t, int64(10), o.ID)

	_, err = f.users.CreateDriver(ctx, profile("Bruno", "a@x.com"))
	assert.Equal(t, "email", validationField(t, err))

	a, err := f.users.ResolveByID(ctx, 10)
	require.NoError(t, err)
	owner, ok := a.(*model.Owner)
	require.True(t, ok, "identity 10 must resolve to an owner, got %T", a)
	assert.Equal(t, "20-12345678-3", owner.TaxID)

	owners, err := f.users.ListOwners(ctx)
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestDriverThenOwnerWithSameEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateDriver(ctx, profile("Bruno", "a@x.com"))
	require.NoError(t, err)
	_, err = f.users.CreateOwner(ctx, profile("Ana", " A@X.com "), "20-1-3")
	assert.Equal(t, "email", validationField(t, err))

	all, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.RoleDriver, all[0].Role())

	owners, err := f.users.ListOwners(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestUserRoundTripAndHashing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	o, err := f.users.CreateOwner(ctx, profile("Ana", "ana@x.com"), "20-1-3")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", o.PasswordHash)
	assert.True(t, utils.VerifyPassword(o.PasswordHash, "secret1"))

	got, err := f.users.ResolveByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Account(o), got)

	d, err := f.users.CreateDriver(ctx, profile("Bruno", "bruno@x.com"))
	require.NoError(t, err)
	gotD, err := f.users.ResolveByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Account(d), gotD)
	assert.NotEqual(t, o.ID, d.ID, "owners and drivers share one identity space")
}

func TestUserValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateOwner(ctx, profile("Ana", "ana@x.com"), " ")
	assert.Equal(t, "tax_id", validationField(t, err))
	_, err = f.users.CreateDriver(ctx, profile("", "b@x.com"))
	assert.Equal(t, "name", validationField(t, err))
	_, err = f.users.CreateDriver(ctx, profile("Bruno", "not-an-email"))
	assert.Equal(t, "email", validationField(t, err))
	_, err = f.users.CreateDriver(ctx, model.Profile{Name: "Bruno", Email: "b@x.com", Password: "123"})
	assert.Equal(t, "password", validationField(t, err))
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana, err := f.users.CreateOwner(ctx, profile("Ana", "ana@x.com"), "20-1-3")
	require.NoError(t, err)
	bruno, err := f.users.CreateDriver(ctx, profile("Bruno", "bruno@x.com"))
	require.NoError(t, err)

	// taking another user's email
	edit := *bruno
	edit.Email = "ANA@x.com"
	_, err = f.users.Update(ctx, bruno.ID, &edit, "")
	assert.Equal(t, "email", validationField(t, err))

	// keeping one's own email while changing other fields
	edit = *bruno
	edit.Phone = "341-000"
	out, err := f.users.Update(ctx, bruno.ID, &edit, "")
	require.NoError(t, err)
	assert.Equal(t, "341-000", out.Base().Phone)
	assert.Equal(t, bruno.PasswordHash, out.Base().PasswordHash)

	// new password is hashed
	out, err = f.users.Update(ctx, bruno.ID, &edit, "another1")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(out.Base().PasswordHash, "another1"))

	// subtype is fixed
	_, err = f.users.Update(ctx, ana.ID, &model.Driver{Usuario: ana.Usuario}, "")
	assert.Equal(t, "role", validationField(t, err))

	// a missing variant is rejected instead of dereferenced
	_, err = f.users.Update(ctx, ana.ID, nil, "")
	assert.Equal(t, "role", validationField(t, err))
	var noOwner *model.Owner
	_, err = f.users.Update(ctx, ana.ID, noOwner, "")
	assert.Equal(t, "role", validationField(t, err))

	got, err := f.users.ResolveByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Account(ana), got)
}

func TestUserDeleteAndPartitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana, err := f.users.CreateOwner(ctx, profile("Ana", "ana@x.com"), "20-1-3")
	require.NoError(t, err)
	_, err = f.users.CreateDriver(ctx, profile("Carla", "carla@x.com"))
	require.NoError(t, err)
	_, err = f.users.CreateDriver(ctx, profile("Bruno", "bruno@x.com"))
	require.NoError(t, err)

	drivers, err := f.users.ListDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, "Bruno", drivers[0].Name)
	assert.Equal(t, "Carla", drivers[1].Name)

	require.NoError(t, f.users.Delete(ctx, ana.ID))
	_, err = f.users.ResolveByID(ctx, ana.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.users.Delete(ctx, ana.ID), ErrNotFound)

	// the email is free again
	_, err = f.users.CreateDriver(ctx, profile("Ana", "ana@x.com"))
	assert.NoError(t, err)
}

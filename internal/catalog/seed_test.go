package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/repository"
	"github.com/iliyamo/parking-registry/internal/store/memstore"
)

const sample = `
payment_methods:
  - id: 1
    name: Cash
    description: Efectivo
  - name: Debit card
day_classifications:
  - id: 1
    name: Weekday
  - id: 2
    name: Weekend
`

func TestParseSeed(t *testing.T) {
	s, err := ParseSeed(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, s.PaymentMethods, 2)
	assert.Equal(t, int64(1), s.PaymentMethods[0].ID)
	assert.Equal(t, "Efectivo", s.PaymentMethods[0].Description)
	assert.Equal(t, int64(0), s.PaymentMethods[1].ID)
	require.Len(t, s.DayClassifications, 2)
	assert.Equal(t, "Weekend", s.DayClassifications[1].Name)
}

func TestParseSeedRejectsUnknownKeys(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("payment_method:\n  - name: Cash\n"))
	assert.Error(t, err)
}

func TestParseSeedEmpty(t *testing.T) {
	s, err := ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s.PaymentMethods)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCatalogRepo(memstore.New(), nil, 0, repository.WithLogger(zap.NewNop()))
	s, err := ParseSeed(strings.NewReader(sample))
	require.NoError(t, err)

	res, err := Apply(ctx, repo, s)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 4}, res)

	res, err = Apply(ctx, repo, s)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 4}, res)

	ms, err := repo.ListPaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "Cash", ms[0].Name)
	assert.Equal(t, int64(2), ms[1].ID)
}

func TestApplyRejectsInvalidEntry(t *testing.T) {
	repo := repository.NewCatalogRepo(memstore.New(), nil, 0, repository.WithLogger(zap.NewNop()))
	_, err := Apply(context.Background(), repo, Seed{PaymentMethods: []model.PaymentMethod{{Name: " "}}})
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	s, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Len(t, s.DayClassifications, 2)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// Package catalog loads the fixed catalogs (payment methods and day
// classifications) from a YAML seed file into the registry.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/repository"
)

// Seed is the content of a catalog seed file. Entries may carry an explicit
// id so that references in other data sets stay stable across environments.
type Seed struct {
	PaymentMethods     []model.PaymentMethod     `yaml:"payment_methods"`
	DayClassifications []model.DayClassification `yaml:"day_classifications"`
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// LoadSeed reads and parses the seed file at path.
func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, err
	}
	defer f.Close()
	return ParseSeed(f)
}

// ParseSeed decodes a seed document. Unknown keys are rejected so typos do
// not silently drop entries.
func ParseSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// Apply inserts the seed entries that are not present yet. An entry is
// present when its explicit id exists or its name is already taken, so
// applying the same seed twice is a no-op.
func Apply(ctx context.Context, r *repository.CatalogRepo, s Seed) (Result, error) {
	var res Result
	for _, m := range s.PaymentMethods {
		if m.ID > 0 {
			if _, err := r.GetPaymentMethod(ctx, m.ID); err == nil {
				res.Skipped++
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return res, err
			}
		}
		if err := count(&res, func() error { _, err := r.CreatePaymentMethod(ctx, m); return err }); err != nil {
			return res, fmt.Errorf("payment method %q: %w", m.Name, err)
		}
	}
	for _, d := range s.DayClassifications {
		if d.ID > 0 {
			if _, err := r.GetDayClassification(ctx, d.ID); err == nil {
				res.Skipped++
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return res, err
			}
		}
		if err := count(&res, func() error { _, err := r.CreateDayClassification(ctx, d); return err }); err != nil {
			return res, fmt.Errorf("day classification %q: %w", d.Name, err)
		}
	}
	return res, nil
}

// count runs create and tallies the outcome. A name conflict means the entry
// was seeded before under another id and is skipped.
func count(res *Result, create func() error) error {
	err := create()
	var ve *repository.ValidationError
	switch {
	case err == nil:
		res.Created++
	case errors.As(err, &ve) && ve.Field == "name":
		res.Skipped++
	default:
		return err
	}
	return nil
}

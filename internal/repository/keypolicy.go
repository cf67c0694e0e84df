package repository

import (
	"fmt"

	"github.com/iliyamo/parking-registry/internal/model"
)

// CheckKeyUnchanged rejects an update whose record carries a different
// identity than the key it was addressed by. Relocating a record to a new key
// takes a delete followed by a create.
func CheckKeyUnchanged(kind model.Kind, addressed, supplied fmt.Stringer) error {
	if addressed.String() != supplied.String() {
		return &KeyImmutableError{Kind: kind, Fields: model.KeyFields(kind)}
	}
	return nil
}

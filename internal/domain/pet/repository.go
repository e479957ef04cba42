package pet

import (
	"context"
)

// PetRepository defines read operations for adoptable pets.
type PetRepository interface {
	// FindByID returns a NotFound domain error when the pet does not exist.
	FindByID(ctx context.Context, id uint) (*Pet, error)

	// FindByIDs is best effort: ids without a matching pet are silently omitted.
	FindByIDs(ctx context.Context, ids []uint) ([]*Pet, error)

	// ListAvailable returns every pet still open for adoption.
	ListAvailable(ctx context.Context) ([]*Pet, error)
}

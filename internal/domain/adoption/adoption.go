package adoption

import (
	"context"
	"time"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// Adoption is the terminal record of a completed match between a pet, a user and a city.
type Adoption struct {
	id           uint
	petID        uint
	userID       uint
	cityID       uint
	adoptionDate time.Time
}

// NewAdoption stamps a new adoption record with the current time.
func NewAdoption(petID, userID, cityID uint) (*Adoption, error) {
	if petID == 0 {
		return nil, domain.NewMalformedRequestError("pet ID is required")
	}
	if userID == 0 {
		return nil, domain.NewMalformedRequestError("user ID is required")
	}
	return &Adoption{
		petID:        petID,
		userID:       userID,
		cityID:       cityID,
		adoptionDate: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an Adoption from persistence data (no validation).
func Reconstruct(id, petID, userID, cityID uint, adoptionDate time.Time) *Adoption {
	return &Adoption{
		id:           id,
		petID:        petID,
		userID:       userID,
		cityID:       cityID,
		adoptionDate: adoptionDate,
	}
}

func (a *Adoption) ID() uint                { return a.id }
func (a *Adoption) PetID() uint             { return a.petID }
func (a *Adoption) UserID() uint            { return a.userID }
func (a *Adoption) CityID() uint            { return a.cityID }
func (a *Adoption) AdoptionDate() time.Time { return a.adoptionDate }

// SetID assigns the identifier generated by the store on insert.
func (a *Adoption) SetID(id uint) {
	a.id = id
}

// AdoptionRepository defines persistence for adoption records. Records are never updated.
type AdoptionRepository interface {
	Save(ctx context.Context, adoption *Adoption) error
	FindByPetID(ctx context.Context, petID uint) (*Adoption, error)
}

package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
)

// PetDTO is the API response representation of an adoptable pet.
type PetDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"specie"`
	Sex         string    `json:"sex"`
	Age         int       `json:"age"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"urlImg,omitempty"`
	Available   bool      `json:"available"`
	Interested  int       `json:"interested"`
	Attributes  []string  `json:"attributes"`
	CityID      uint      `json:"city_id"`
	CreatedAt   time.Time `json:"creationDate"`
}

// PetService exposes the read-only pet catalogue.
type PetService struct {
	repo   petDomain.PetRepository
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(repo petDomain.PetRepository, logger *zap.Logger) *PetService {
	return &PetService{repo: repo, logger: logger}
}

// ListAvailable returns every pet still open for adoption.
func (s *PetService) ListAvailable(ctx context.Context) ([]PetDTO, error) {
	pets, err := s.repo.ListAvailable(ctx)
	if err != nil {
		s.logger.Error("failed to list pets", zap.Error(err))
		return nil, domain.AsError(err, "failed to list pets")
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// GetPet returns a single pet by ID.
func (s *PetService) GetPet(ctx context.Context, petID uint) (*PetDTO, error) {
	pet, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundMessage(fmt.Sprintf("There is no pet with ID %d.", petID)).
				With("pet_id", strconv.FormatUint(uint64(petID), 10))
		}
		return nil, domain.AsError(err, "failed to get pet")
	}
	result := toPetDTO(pet)
	return &result, nil
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	return PetDTO{
		ID:          p.ID(),
		Name:        p.Name(),
		Species:     p.Species(),
		Sex:         string(p.Sex()),
		Age:         p.AgeYears(),
		Description: p.Description(),
		ImageURL:    p.ImageURL(),
		Available:   p.Available(),
		Interested:  p.Interested(),
		Attributes:  p.Attributes(),
		CityID:      p.CityID(),
		CreatedAt:   p.CreatedAt(),
	}
}

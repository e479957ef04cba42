package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	adoptionDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/adoption"
	userDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events"
)

// RecordAdoptionRequest identifies a completed adoption.
type RecordAdoptionRequest struct {
	PetID  uint `json:"pet_id"`
	UserID uint `json:"user_id"`
}

// maxReleaseAttempts bounds how often a lost version race is retried when
// dropping an adopted pet from the adopter's interest set.
const maxReleaseAttempts = 3

// AdoptionDTO is the response representation of an adoption record.
type AdoptionDTO struct {
	ID           uint      `json:"id"`
	PetID        uint      `json:"pet_id"`
	UserID       uint      `json:"user_id"`
	CityID       uint      `json:"city_id"`
	AdoptionDate time.Time `json:"adoption_date"`
}

// RecordAdoption stores the adoption of a pet by a user and drops that pet from
// the adopter's interest set. Replaying the same adoption is a no-op.
func (s *AdoptionRequestService) RecordAdoption(ctx context.Context, req RecordAdoptionRequest) (*AdoptionDTO, error) {
	u, err := s.users.FindByID(ctx, req.UserID, true)
	if err != nil {
		return nil, domain.AsError(err, "failed to look up adopter")
	}
	p, err := s.pets.FindByID(ctx, req.PetID)
	if err != nil {
		return nil, domain.AsError(err, "failed to look up adopted pet")
	}

	record, err := s.adoptions.FindByPetID(ctx, p.ID())
	switch {
	case err == nil:
		if record.UserID() != u.ID() {
			return nil, domain.NewConflictError(fmt.Sprintf("Pet %d was already adopted by another user.", p.ID()))
		}
		s.logger.Info("adoption already recorded", zap.Uint("pet_id", p.ID()), zap.Uint("user_id", u.ID()))
	case domain.IsNotFound(err):
		record, err = adoptionDomain.NewAdoption(p.ID(), u.ID(), p.CityID())
		if err != nil {
			return nil, err
		}
		if err := s.adoptions.Save(ctx, record); err != nil {
			s.logger.Error("failed to save adoption", zap.Uint("pet_id", p.ID()), zap.Error(err))
			return nil, domain.AsError(err, "failed to save adoption")
		}
		s.logger.Info("adoption recorded",
			zap.Uint("adoption_id", record.ID()),
			zap.Uint("pet_id", p.ID()),
			zap.Uint("user_id", u.ID()),
		)
	default:
		return nil, domain.AsError(err, "failed to look up adoption")
	}

	if err := s.releaseAdoptedPet(ctx, u, p.ID()); err != nil {
		return nil, err
	}

	return &AdoptionDTO{
		ID:           record.ID(),
		PetID:        record.PetID(),
		UserID:       record.UserID(),
		CityID:       record.CityID(),
		AdoptionDate: record.AdoptionDate(),
	}, nil
}

// releaseAdoptedPet drops petID from the adopter's interest set, re-reading the
// user after a lost version race. Exhausting the attempts is reported as
// Internal so the adoption event is retried; the replay finds the record and
// only repeats the release.
func (s *AdoptionRequestService) releaseAdoptedPet(ctx context.Context, u *userDomain.User, petID uint) error {
	for attempt := 1; ; attempt++ {
		if !u.HasInterest(petID) {
			return nil
		}
		if err := u.RemoveInterest(petID); err != nil {
			return err
		}
		u.IncrementVersion()

		err := s.users.Update(ctx, u)
		if err == nil {
			s.publishEvent(ctx, events.InterestWithdrawn, u.Email(), events.InterestWithdrawnEvent{
				UserID:     u.ID(),
				Email:      u.Email(),
				PetID:      petID,
				Reason:     "adopted",
				OccurredAt: time.Now().UTC(),
			})
			return nil
		}
		if domain.KindOf(err) != domain.KindConflict || attempt == maxReleaseAttempts {
			s.logger.Error("failed to release adopted pet",
				zap.Uint("user_id", u.ID()),
				zap.Uint("pet_id", petID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return domain.NewInternalError("failed to release adopted pet from interest set", err)
		}

		s.logger.Warn("adopter modified concurrently, reloading",
			zap.Uint("user_id", u.ID()),
			zap.Uint("pet_id", petID),
			zap.Int("attempt", attempt),
		)
		u, err = s.users.FindByID(ctx, u.ID(), true)
		if err != nil {
			return domain.AsError(err, "failed to reload adopter")
		}
	}
}

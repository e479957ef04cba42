package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	adoptionDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/adoption"
)

// AdoptionModel is the GORM model for the adoptions table.
type AdoptionModel struct {
	ID           uint      `gorm:"primaryKey"`
	PetID        uint      `gorm:"not null;uniqueIndex"`
	UserID       uint      `gorm:"not null;index"`
	CityID       uint      `gorm:"not null;index"`
	AdoptionDate time.Time `gorm:"type:timestamptz;not null"`
}

func (AdoptionModel) TableName() string { return "adoptions" }

// GormAdoptionRepository implements AdoptionRepository using GORM.
type GormAdoptionRepository struct {
	db *gorm.DB
}

func NewGormAdoptionRepository(db *gorm.DB) *GormAdoptionRepository {
	return &GormAdoptionRepository{db: db}
}

// Save inserts a new adoption record. A second adoption of the same pet is a conflict.
func (r *GormAdoptionRepository) Save(ctx context.Context, a *adoptionDomain.Adoption) error {
	model := AdoptionModel{
		PetID:        a.PetID(),
		UserID:       a.UserID(),
		CityID:       a.CityID(),
		AdoptionDate: a.AdoptionDate(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("pet has already been adopted").
				With("pet_id", strconv.FormatUint(uint64(a.PetID()), 10))
		}
		return fmt.Errorf("failed to insert adoption: %w", err)
	}
	a.SetID(model.ID)
	return nil
}

func (r *GormAdoptionRepository) FindByPetID(ctx context.Context, petID uint) (*adoptionDomain.Adoption, error) {
	var model AdoptionModel
	if err := r.db.WithContext(ctx).Where("pet_id = ?", petID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Adoption", strconv.FormatUint(uint64(petID), 10))
		}
		return nil, fmt.Errorf("failed to find adoption by pet: %w", err)
	}
	return adoptionDomain.Reconstruct(model.ID, model.PetID, model.UserID, model.CityID, model.AdoptionDate), nil
}

// Models lists every GORM model for development auto-migration.
func Models() []interface{} {
	return []interface{}{
		&CityModel{},
		&AttributeModel{},
		&PetModel{},
		&UserModel{},
		&UserInterestModel{},
		&AdoptionModel{},
	}
}

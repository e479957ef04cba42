package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
)

// AttributeModel is the GORM model for the attributes table.
type AttributeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(60);not null;uniqueIndex"`
}

func (AttributeModel) TableName() string { return "attributes" }

// PetModel is the GORM model for the pets table.
type PetModel struct {
	ID          uint             `gorm:"primaryKey"`
	Name        string           `gorm:"type:varchar(100);not null"`
	Species     string           `gorm:"type:varchar(40);not null"`
	Sex         string           `gorm:"type:varchar(10);not null;default:'unknown'"`
	Age         int              `gorm:"type:int;not null;default:0"`
	Description string           `gorm:"type:text"`
	ImageURL    string           `gorm:"column:image_url;type:text"`
	Available   bool             `gorm:"not null;default:true"`
	Interested  int              `gorm:"not null;default:0"`
	CityID      uint             `gorm:"not null;index"`
	Attributes  []AttributeModel `gorm:"many2many:pets_attributes;joinForeignKey:PetID;joinReferences:AttributeID"`
	CreatedAt   time.Time        `gorm:"type:timestamptz;not null;default:now()"`
}

func (PetModel) TableName() string { return "pets" }

// GormPetRepository implements PetRepository using GORM.
type GormPetRepository struct {
	db *gorm.DB
}

func NewGormPetRepository(db *gorm.DB) *GormPetRepository {
	return &GormPetRepository{db: db}
}

func (r *GormPetRepository) FindByID(ctx context.Context, id uint) (*petDomain.Pet, error) {
	var model PetModel
	if err := r.db.WithContext(ctx).Preload("Attributes").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pet", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("failed to find pet by ID: %w", err)
	}
	return toPetDomain(&model), nil
}

func (r *GormPetRepository) FindByIDs(ctx context.Context, ids []uint) ([]*petDomain.Pet, error) {
	if len(ids) == 0 {
		return []*petDomain.Pet{}, nil
	}
	var models []PetModel
	if err := r.db.WithContext(ctx).
		Preload("Attributes").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find pets by IDs: %w", err)
	}
	return toPetDomains(models), nil
}

func (r *GormPetRepository) ListAvailable(ctx context.Context) ([]*petDomain.Pet, error) {
	var models []PetModel
	if err := r.db.WithContext(ctx).
		Preload("Attributes").
		Where("available = ?", true).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list available pets: %w", err)
	}
	return toPetDomains(models), nil
}

// --- Conversions ---

func toPetDomains(models []PetModel) []*petDomain.Pet {
	pets := make([]*petDomain.Pet, len(models))
	for i := range models {
		pets[i] = toPetDomain(&models[i])
	}
	return pets
}

func toPetDomain(m *PetModel) *petDomain.Pet {
	attributes := make([]string, len(m.Attributes))
	for i, a := range m.Attributes {
		attributes[i] = a.Name
	}
	return petDomain.Reconstruct(
		m.ID,
		m.Name, m.Species,
		petDomain.Sex(m.Sex),
		m.Age,
		m.Description, m.ImageURL,
		m.Available,
		m.Interested,
		attributes,
		m.CityID,
		m.CreatedAt,
	)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	cityDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/city"
)

// CityModel is the GORM model for the cities table.
type CityModel struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"type:varchar(100);not null"`
	PostalCode int    `gorm:"not null;uniqueIndex"`
}

func (CityModel) TableName() string { return "cities" }

// GormCityRepository implements CityRepository using GORM.
type GormCityRepository struct {
	db *gorm.DB
}

func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{db: db}
}

func (r *GormCityRepository) FindByPostalCode(ctx context.Context, postalCode int) (*cityDomain.City, error) {
	var model CityModel
	if err := r.db.WithContext(ctx).Where("postal_code = ?", postalCode).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("City", strconv.Itoa(postalCode))
		}
		return nil, fmt.Errorf("failed to find city by postal code: %w", err)
	}
	return cityDomain.Reconstruct(model.ID, model.Name, model.PostalCode), nil
}

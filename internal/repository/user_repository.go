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
	userDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID          uint       `gorm:"primaryKey"`
	FullName    string     `gorm:"type:varchar(150);not null"`
	Age         int        `gorm:"not null"`
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone       string     `gorm:"type:varchar(40);not null"`
	Address     string     `gorm:"type:varchar(255);not null"`
	PostalCode  int        `gorm:"not null"`
	HasPet      bool       `gorm:"not null;default:false"`
	LivingPlace string     `gorm:"type:varchar(100);not null"`
	Interests   []PetModel `gorm:"many2many:user_interests;joinForeignKey:UserID;joinReferences:PetID"`
	Version     int64      `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time  `gorm:"type:timestamptz;not null"`
}

func (UserModel) TableName() string { return "users" }

// UserInterestModel is one row of the user_interests join table.
type UserInterestModel struct {
	UserID uint `gorm:"primaryKey"`
	PetID  uint `gorm:"primaryKey;index"`
}

func (UserInterestModel) TableName() string { return "user_interests" }

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) query(ctx context.Context, withInterests bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if withInterests {
		q = q.Preload("Interests", func(db *gorm.DB) *gorm.DB {
			return db.Order("pets.id ASC")
		}).Preload("Interests.Attributes")
	}
	return q
}

// FindByEmail retrieves a user by email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string, withInterests bool) (*userDomain.User, error) {
	var model UserModel
	if err := r.query(ctx, withInterests).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return toUserDomain(&model), nil
}

// FindByID retrieves a user by ID.
func (r *GormUserRepository) FindByID(ctx context.Context, id uint, withInterests bool) (*userDomain.User, error) {
	var model UserModel
	if err := r.query(ctx, withInterests).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toUserDomain(&model), nil
}

// FindAll retrieves every user ordered by creation.
func (r *GormUserRepository) FindAll(ctx context.Context, withInterests bool) ([]*userDomain.User, error) {
	var models []UserModel
	if err := r.query(ctx, withInterests).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*userDomain.User, len(models))
	for i := range models {
		users[i] = toUserDomain(&models[i])
	}
	return users, nil
}

// Save inserts a new user together with its interest rows.
func (r *GormUserRepository) Save(ctx context.Context, user *userDomain.User) error {
	model := toUserModel(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Interests").Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewConflictError("a user with this email already exists").With("email", user.Email())
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return insertInterests(tx, model.ID, user.InterestIDs())
	})
	if err != nil {
		return err
	}
	user.SetID(model.ID)
	return nil
}

// Update persists changes with optimistic locking and rewrites the interest rows.
// The caller must have called IncrementVersion on the aggregate.
func (r *GormUserRepository) Update(ctx context.Context, user *userDomain.User) error {
	previousVersion := user.Version() - 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&UserModel{}).
			Where("id = ? AND version = ?", user.ID(), previousVersion).
			Updates(map[string]interface{}{
				"full_name":    user.FullName(),
				"age":          user.Age(),
				"phone":        user.Phone(),
				"address":      user.Address(),
				"postal_code":  user.PostalCode(),
				"has_pet":      user.HasPet(),
				"living_place": user.LivingPlace(),
				"version":      user.Version(),
				"updated_at":   user.UpdatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("user was modified by another request").With("email", user.Email())
		}

		if err := tx.Where("user_id = ?", user.ID()).Delete(&UserInterestModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear user interests: %w", err)
		}
		return insertInterests(tx, user.ID(), user.InterestIDs())
	})
}

// Delete removes the user and its interest rows. Pets and adoptions are untouched.
func (r *GormUserRepository) Delete(ctx context.Context, user *userDomain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID()).Delete(&UserInterestModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete user interests: %w", err)
		}
		result := tx.Where("id = ?", user.ID()).Delete(&UserModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("User", user.Email())
		}
		return nil
	})
}

func insertInterests(tx *gorm.DB, userID uint, petIDs []uint) error {
	if len(petIDs) == 0 {
		return nil
	}
	rows := make([]UserInterestModel, len(petIDs))
	for i, petID := range petIDs {
		rows[i] = UserInterestModel{UserID: userID, PetID: petID}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert user interests: %w", err)
	}
	return nil
}

// --- Conversions ---

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:          u.ID(),
		FullName:    u.FullName(),
		Age:         u.Age(),
		Email:       u.Email(),
		Phone:       u.Phone(),
		Address:     u.Address(),
		PostalCode:  u.PostalCode(),
		HasPet:      u.HasPet(),
		LivingPlace: u.LivingPlace(),
		Version:     u.Version(),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	interests := make([]*petDomain.Pet, len(m.Interests))
	for i := range m.Interests {
		interests[i] = toPetDomain(&m.Interests[i])
	}
	return userDomain.Reconstruct(
		m.ID,
		m.FullName,
		m.Age,
		m.Email, m.Phone, m.Address,
		m.PostalCode,
		m.HasPet,
		m.LivingPlace,
		interests,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

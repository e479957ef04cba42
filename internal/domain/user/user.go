package user

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
)

// MaxInterests is the maximum number of pets a user may request at once.
const MaxInterests = 2

const (
	msgQuotaReached = "Maximum adoption requests reached."
	msgDuplicate    = "You are already registered to adopt this pet."
)

// User is the aggregate root for an adoption applicant and their interest set.
type User struct {
	id          uint
	fullName    string
	age         int
	email       string
	phone       string
	address     string
	postalCode  int
	hasPet      bool
	livingPlace string
	interests   []*petDomain.Pet
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NormalizeEmail is the canonical form under which emails are stored and looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a first-time applicant. Duplicate pets are collapsed before
// the interest cap is checked.
func NewUser(
	fullName string,
	age int,
	email, phone, address string,
	postalCode int,
	hasPet bool,
	livingPlace string,
	interests []*petDomain.Pet,
) (*User, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, domain.NewMalformedRequestError("full name is required")
	}
	if NormalizeEmail(email) == "" {
		return nil, domain.NewMalformedRequestError("email is required")
	}

	unique := make([]*petDomain.Pet, 0, len(interests))
	seen := make(map[uint]struct{}, len(interests))
	for _, p := range interests {
		if p == nil {
			continue
		}
		if _, dup := seen[p.ID()]; dup {
			continue
		}
		seen[p.ID()] = struct{}{}
		unique = append(unique, p)
	}
	if len(unique) > MaxInterests {
		return nil, domain.NewRuleViolationError(msgQuotaReached)
	}

	now := time.Now().UTC()
	return &User{
		fullName:    strings.TrimSpace(fullName),
		age:         age,
		email:       NormalizeEmail(email),
		phone:       strings.TrimSpace(phone),
		address:     strings.TrimSpace(address),
		postalCode:  postalCode,
		hasPet:      hasPet,
		livingPlace: strings.TrimSpace(livingPlace),
		interests:   unique,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uint,
	fullName string,
	age int,
	email, phone, address string,
	postalCode int,
	hasPet bool,
	livingPlace string,
	interests []*petDomain.Pet,
	version int64,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:          id,
		fullName:    fullName,
		age:         age,
		email:       email,
		phone:       phone,
		address:     address,
		postalCode:  postalCode,
		hasPet:      hasPet,
		livingPlace: livingPlace,
		interests:   interests,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the user's identifier, zero until persisted.
func (u *User) ID() uint { return u.id }

// FullName returns the applicant's full name.
func (u *User) FullName() string { return u.fullName }

func (u *User) Age() int            { return u.age }
func (u *User) Email() string       { return u.email }
func (u *User) Phone() string       { return u.phone }
func (u *User) Address() string     { return u.address }
func (u *User) PostalCode() int     { return u.postalCode }
func (u *User) HasPet() bool        { return u.hasPet }
func (u *User) LivingPlace() string { return u.livingPlace }

// Version returns the entity version for optimistic locking.
func (u *User) Version() int64 { return u.version }

func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Interests returns a copy of the interest set.
func (u *User) Interests() []*petDomain.Pet {
	out := make([]*petDomain.Pet, len(u.interests))
	copy(out, u.interests)
	return out
}

// InterestIDs returns the ids of the pets in the interest set.
func (u *User) InterestIDs() []uint {
	ids := make([]uint, len(u.interests))
	for i, p := range u.interests {
		ids[i] = p.ID()
	}
	return ids
}

// --- Behavior ---

// SetID assigns the identifier generated by the store on insert.
func (u *User) SetID(id uint) {
	u.id = id
}

// HasInterest reports whether the pet is already in the interest set.
func (u *User) HasInterest(petID uint) bool {
	for _, p := range u.interests {
		if p.ID() == petID {
			return true
		}
	}
	return false
}

// AddInterest registers interest in p. The set never grows past MaxInterests;
// the aggregate is left untouched on failure.
func (u *User) AddInterest(p *petDomain.Pet) error {
	if p == nil {
		return domain.NewMalformedRequestError("pet is required")
	}
	if len(u.interests) >= MaxInterests {
		return domain.NewRuleViolationError(msgQuotaReached).
			With("email", u.email)
	}
	if u.HasInterest(p.ID()) {
		return domain.NewRuleViolationError(msgDuplicate).
			With("email", u.email).
			With("pet_id", strconv.FormatUint(uint64(p.ID()), 10))
	}
	u.interests = append(u.interests, p)
	u.updatedAt = time.Now().UTC()
	return nil
}

// RemoveInterest withdraws exactly one pet from the interest set.
func (u *User) RemoveInterest(petID uint) error {
	for i, p := range u.interests {
		if p.ID() != petID {
			continue
		}
		remaining := make([]*petDomain.Pet, 0, len(u.interests)-1)
		remaining = append(remaining, u.interests[:i]...)
		remaining = append(remaining, u.interests[i+1:]...)
		u.interests = remaining
		u.updatedAt = time.Now().UTC()
		return nil
	}
	return domain.NewConflictError(
		fmt.Sprintf("The user %s does not have a registered pet with ID %d.", u.fullName, petID),
	).With("email", u.email).With("pet_id", strconv.FormatUint(uint64(petID), 10))
}

// IncrementVersion bumps the version for optimistic locking.
func (u *User) IncrementVersion() {
	u.version++
	u.updatedAt = time.Now().UTC()
}

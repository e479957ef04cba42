package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	adoptionDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/adoption"
	cityDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/city"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	userDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/kafka"
)

const eventSource = "service-adoption"

// requiredFields lists the submission fields in the order they are reported when missing.
var requiredFields = []string{
	"fullname", "age", "email", "phoneNumber", "address",
	"zipCode", "hasPet", "livingPlace", "interestedIn",
}

// ZipCode accepts a postal code sent either as a JSON number or a JSON string.
type ZipCode string

// UnmarshalJSON implements json.Unmarshaler.
func (z *ZipCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*z = ZipCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("zipCode must be a number or a string: %w", err)
	}
	*z = ZipCode(n.String())
	return nil
}

// Int returns the numeric postal code.
func (z ZipCode) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(z)))
}

// SubmitInterestRequest is the payload of an adoption interest request.
// Pointer fields distinguish a missing field from an empty one.
type SubmitInterestRequest struct {
	FullName     *string  `json:"fullname"`
	Age          *int     `json:"age"`
	Email        *string  `json:"email"`
	PhoneNumber  *string  `json:"phoneNumber"`
	Address      *string  `json:"address"`
	ZipCode      *ZipCode `json:"zipCode"`
	HasPet       *bool    `json:"hasPet"`
	LivingPlace  *string  `json:"livingPlace"`
	InterestedIn []uint   `json:"interestedIn"`
}

// UserDTO is the response representation of a user and their interest set.
type UserDTO struct {
	ID           uint      `json:"id"`
	FullName     string    `json:"fullname"`
	Age          int       `json:"age"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	Address      string    `json:"address"`
	ZipCode      int       `json:"zipCode"`
	HasPet       bool      `json:"hasPet"`
	LivingPlace  string    `json:"livingPlace"`
	InterestedIn []PetDTO  `json:"interestedIn"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubmitResult describes the outcome of a successful interest request.
type SubmitResult struct {
	Created bool    `json:"created"`
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// DeleteResult describes a deleted user.
type DeleteResult struct {
	Message  string `json:"message"`
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}

// WithdrawResult describes a withdrawn interest.
type WithdrawResult struct {
	Message string  `json:"message"`
	PetID   uint    `json:"pet_id"`
	User    UserDTO `json:"user"`
}

// EventPublisher publishes CloudEvents; *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// AdoptionRequestService validates adoption interest requests and maintains
// each user's interest set.
type AdoptionRequestService struct {
	users     userDomain.UserRepository
	cities    cityDomain.CityRepository
	pets      petDomain.PetRepository
	adoptions adoptionDomain.AdoptionRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewAdoptionRequestService creates a new AdoptionRequestService.
func NewAdoptionRequestService(
	users userDomain.UserRepository,
	cities cityDomain.CityRepository,
	pets petDomain.PetRepository,
	adoptions adoptionDomain.AdoptionRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *AdoptionRequestService {
	return &AdoptionRequestService{
		users:     users,
		cities:    cities,
		pets:      pets,
		adoptions: adoptions,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitInterest registers interest in the anchor pet (the first of InterestedIn).
// A first-time email creates the user with every resolvable requested pet.
func (s *AdoptionRequestService) SubmitInterest(ctx context.Context, req SubmitInterestRequest) (*SubmitResult, error) {
	if missing := missingFields(req); len(missing) > 0 {
		return nil, domain.NewMalformedRequestError(
			"Required fields missing: " + strings.Join(missing, ", ") + ".",
		).With("fields", strings.Join(missing, ","))
	}
	if empty := emptyFields(req); len(empty) > 0 {
		return nil, domain.NewMalformedRequestError("Empty fields are not accepted.").
			With("fields", strings.Join(empty, ","))
	}

	postalCode, err := req.ZipCode.Int()
	if err != nil {
		return nil, domain.NewMalformedRequestError(fmt.Sprintf("Zip code %q is not numeric.", string(*req.ZipCode)))
	}
	city, err := s.cities.FindByPostalCode(ctx, postalCode)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundMessage(fmt.Sprintf("There is no city with zip code %d.", postalCode)).
				With("zip_code", strconv.Itoa(postalCode))
		}
		return nil, domain.AsError(err, "failed to look up city")
	}

	if len(req.InterestedIn) == 0 {
		return nil, domain.NewMalformedRequestError("No pet information requested.")
	}

	anchorID := req.InterestedIn[0]
	anchor, err := s.pets.FindByID(ctx, anchorID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundMessage(fmt.Sprintf("There is no pet with ID %d.", anchorID)).
				With("pet_id", strconv.FormatUint(uint64(anchorID), 10))
		}
		return nil, domain.AsError(err, "failed to look up pet")
	}

	email := userDomain.NormalizeEmail(*req.Email)
	existing, err := s.users.FindByEmail(ctx, email, true)
	switch {
	case err == nil:
		return s.addInterest(ctx, existing, anchor, *req.FullName)
	case domain.IsNotFound(err):
		return s.createUser(ctx, req, city)
	default:
		return nil, domain.AsError(err, "failed to look up user")
	}
}

func (s *AdoptionRequestService) createUser(ctx context.Context, req SubmitInterestRequest, city *cityDomain.City) (*SubmitResult, error) {
	pets, err := s.pets.FindByIDs(ctx, uniqueIDs(req.InterestedIn))
	if err != nil {
		return nil, domain.AsError(err, "failed to resolve requested pets")
	}

	u, err := userDomain.NewUser(
		*req.FullName,
		*req.Age,
		*req.Email, *req.PhoneNumber, *req.Address,
		city.PostalCode(),
		*req.HasPet,
		*req.LivingPlace,
		pets,
	)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		s.logger.Error("failed to create user", zap.String("email", u.Email()), zap.Error(err))
		return nil, domain.AsError(err, "failed to save user")
	}

	s.logger.Info("user created with adoption interest",
		zap.Uint("user_id", u.ID()),
		zap.String("email", u.Email()),
		zap.Uints("pet_ids", u.InterestIDs()),
	)
	for _, petID := range u.InterestIDs() {
		s.publishInterestRegistered(ctx, u, petID, true)
	}

	return &SubmitResult{
		Created: true,
		Message: fmt.Sprintf("User %s was added.", u.FullName()),
		User:    toUserDTO(u),
	}, nil
}

func (s *AdoptionRequestService) addInterest(ctx context.Context, u *userDomain.User, anchor *petDomain.Pet, submittedName string) (*SubmitResult, error) {
	if err := u.AddInterest(anchor); err != nil {
		s.logger.Info("adoption interest rejected",
			zap.String("email", u.Email()),
			zap.Uint("pet_id", anchor.ID()),
			zap.Error(err),
		)
		return nil, err
	}

	u.IncrementVersion()
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Warn("failed to update user interests", zap.String("email", u.Email()), zap.Error(err))
		return nil, domain.AsError(err, "failed to update user")
	}

	s.logger.Info("adoption interest added",
		zap.Uint("user_id", u.ID()),
		zap.Uint("pet_id", anchor.ID()),
		zap.Int("interests", len(u.InterestIDs())),
	)
	s.publishInterestRegistered(ctx, u, anchor.ID(), false)

	return &SubmitResult{
		Created: false,
		Message: fmt.Sprintf("User %s was added.", strings.TrimSpace(submittedName)),
		User:    toUserDTO(u),
	}, nil
}

// ListUsers returns every user with their interest set.
func (s *AdoptionRequestService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.FindAll(ctx, true)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, domain.AsError(err, "failed to list users")
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// GetUser returns one user with their interest set.
func (s *AdoptionRequestService) GetUser(ctx context.Context, id uint) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, id, true)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundMessage(fmt.Sprintf("There is no user with ID %d.", id)).
				With("user_id", strconv.FormatUint(uint64(id), 10))
		}
		return nil, domain.AsError(err, "failed to get user")
	}
	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes the user registered under email along with their interest set.
func (s *AdoptionRequestService) DeleteUser(ctx context.Context, email string) (*DeleteResult, error) {
	normalized := userDomain.NormalizeEmail(email)
	u, err := s.users.FindByEmail(ctx, normalized, true)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundMessage("The user does not exist in the database.").With("email", normalized)
		}
		return nil, domain.AsError(err, "failed to look up user")
	}

	if err := s.users.Delete(ctx, u); err != nil {
		s.logger.Error("failed to delete user", zap.String("email", normalized), zap.Error(err))
		return nil, domain.AsError(err, "failed to delete user")
	}

	s.logger.Info("user deleted", zap.Uint("user_id", u.ID()), zap.String("email", u.Email()))
	s.publishEvent(ctx, events.UserDeleted, u.Email(), events.UserDeletedEvent{
		UserID:     u.ID(),
		Email:      u.Email(),
		PetIDs:     u.InterestIDs(),
		OccurredAt: time.Now().UTC(),
	})

	return &DeleteResult{
		Message:  fmt.Sprintf("%s was deleted from database.", u.FullName()),
		UserID:   u.ID(),
		Email:    u.Email(),
		FullName: u.FullName(),
	}, nil
}

// WithdrawInterest removes petID from the interest set of the user registered under email.
func (s *AdoptionRequestService) WithdrawInterest(ctx context.Context, email string, petID uint) (*WithdrawResult, error) {
	normalized := userDomain.NormalizeEmail(email)
	u, err := s.users.FindByEmail(ctx, normalized, true)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundMessage("The user does not exist in the database.").With("email", normalized)
		}
		return nil, domain.AsError(err, "failed to look up user")
	}

	if err := u.RemoveInterest(petID); err != nil {
		return nil, err
	}

	u.IncrementVersion()
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Warn("failed to withdraw interest", zap.String("email", normalized), zap.Error(err))
		return nil, domain.AsError(err, "failed to update user")
	}

	s.logger.Info("adoption interest withdrawn", zap.Uint("user_id", u.ID()), zap.Uint("pet_id", petID))
	s.publishEvent(ctx, events.InterestWithdrawn, u.Email(), events.InterestWithdrawnEvent{
		UserID:     u.ID(),
		Email:      u.Email(),
		PetID:      petID,
		Reason:     "withdrawn",
		OccurredAt: time.Now().UTC(),
	})

	return &WithdrawResult{
		Message: fmt.Sprintf("The pet with id %d was removed from user %s.", petID, u.FullName()),
		PetID:   petID,
		User:    toUserDTO(u),
	}, nil
}

// --- Helpers ---

func missingFields(req SubmitInterestRequest) []string {
	present := map[string]bool{
		"fullname":     req.FullName != nil,
		"age":          req.Age != nil,
		"email":        req.Email != nil,
		"phoneNumber":  req.PhoneNumber != nil,
		"address":      req.Address != nil,
		"zipCode":      req.ZipCode != nil,
		"hasPet":       req.HasPet != nil,
		"livingPlace":  req.LivingPlace != nil,
		"interestedIn": req.InterestedIn != nil,
	}
	var missing []string
	for _, f := range requiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// emptyFields assumes every required field is present.
func emptyFields(req SubmitInterestRequest) []string {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	var empty []string
	if blank(*req.FullName) {
		empty = append(empty, "fullname")
	}
	if *req.Age <= 0 {
		empty = append(empty, "age")
	}
	if blank(*req.Email) {
		empty = append(empty, "email")
	}
	if blank(*req.PhoneNumber) {
		empty = append(empty, "phoneNumber")
	}
	if blank(*req.Address) {
		empty = append(empty, "address")
	}
	if blank(string(*req.ZipCode)) {
		empty = append(empty, "zipCode")
	}
	if blank(*req.LivingPlace) {
		empty = append(empty, "livingPlace")
	}
	return empty
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toUserDTO(u *userDomain.User) UserDTO {
	interests := u.Interests()
	pets := make([]PetDTO, len(interests))
	for i, p := range interests {
		pets[i] = toPetDTO(p)
	}
	return UserDTO{
		ID:           u.ID(),
		FullName:     u.FullName(),
		Age:          u.Age(),
		Email:        u.Email(),
		PhoneNumber:  u.Phone(),
		Address:      u.Address(),
		ZipCode:      u.PostalCode(),
		HasPet:       u.HasPet(),
		LivingPlace:  u.LivingPlace(),
		InterestedIn: pets,
		Version:      u.Version(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func (s *AdoptionRequestService) publishInterestRegistered(ctx context.Context, u *userDomain.User, petID uint, newUser bool) {
	s.publishEvent(ctx, events.InterestRegistered, u.Email(), events.InterestRegisteredEvent{
		UserID:     u.ID(),
		Email:      u.Email(),
		PetID:      petID,
		NewUser:    newUser,
		OccurredAt: time.Now().UTC(),
	})
}

// publishEvent is best effort: failures are logged and never fail the request.
func (s *AdoptionRequestService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, events.TopicInterestEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicInterestEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

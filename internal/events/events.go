package events

import "time"

// Topics.
const (
	// TopicInterestEvents carries interest changes published by this service.
	TopicInterestEvents = "adoption.interest.events"
	// TopicAdoptionEvents carries completed adoptions published by the adoption desk.
	TopicAdoptionEvents = "adoption.events"
)

// Event types.
const (
	InterestRegistered = "adoption.interest.registered"
	InterestWithdrawn  = "adoption.interest.withdrawn"
	UserDeleted        = "adoption.user.deleted"
	AdoptionCompleted  = "adoption.completed"
)

// InterestRegisteredEvent is published once per pet added to a user's interest set.
type InterestRegisteredEvent struct {
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	PetID      uint      `json:"pet_id"`
	NewUser    bool      `json:"new_user"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InterestWithdrawnEvent is published when a user drops a pet from the interest set.
type InterestWithdrawnEvent struct {
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	PetID      uint      `json:"pet_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserDeletedEvent is published after a user and their interest set are removed.
type UserDeletedEvent struct {
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	PetIDs     []uint    `json:"pet_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AdoptionCompletedEvent is consumed to record a finished adoption.
type AdoptionCompletedEvent struct {
	PetID      uint      `json:"pet_id"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

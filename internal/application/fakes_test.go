package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	adoptionDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/adoption"
	cityDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/city"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	userDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/kafka"
)

// -------------------------
// Users (in-memory, copy on read and write)
// -------------------------

type fakeUserRepo struct {
	mu      sync.Mutex
	nextID  uint
	byID    map[uint]*userDomain.User
	findErr error
	saveErr error
	// raceOnFind bumps the stored version right after a read, as if another
	// request had written in between.
	raceOnFind bool
	// racesOnFindByID does the same for the next N FindByID calls.
	racesOnFindByID int

	saves   int
	updates int
	deletes int
	finds   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byID: map[uint]*userDomain.User{}}
}

func cloneUser(u *userDomain.User) *userDomain.User {
	return userDomain.Reconstruct(
		u.ID(), u.FullName(), u.Age(), u.Email(), u.Phone(), u.Address(),
		u.PostalCode(), u.HasPet(), u.LivingPlace(), u.Interests(),
		u.Version(), u.CreatedAt(), u.UpdatedAt(),
	)
}

func withoutInterests(u *userDomain.User) *userDomain.User {
	return userDomain.Reconstruct(
		u.ID(), u.FullName(), u.Age(), u.Email(), u.Phone(), u.Address(),
		u.PostalCode(), u.HasPet(), u.LivingPlace(), []*petDomain.Pet{},
		u.Version(), u.CreatedAt(), u.UpdatedAt(),
	)
}

func (r *fakeUserRepo) read(u *userDomain.User, withInterests bool) *userDomain.User {
	if withInterests {
		return cloneUser(u)
	}
	return withoutInterests(u)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string, withInterests bool) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email() == email {
			out := r.read(u, withInterests)
			if r.raceOnFind {
				u.IncrementVersion()
			}
			return out, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint, withInterests bool) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", strconv.FormatUint(uint64(id), 10))
	}
	out := r.read(u, withInterests)
	if r.racesOnFindByID > 0 {
		r.racesOnFindByID--
		u.IncrementVersion()
	}
	return out, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, withInterests bool) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*userDomain.User, 0, len(r.byID))
	for id := uint(1); id < r.nextID; id++ {
		if u, ok := r.byID[id]; ok {
			out = append(out, r.read(u, withInterests))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, existing := range r.byID {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("a user with this email already exists")
		}
	}
	r.saves++
	u.SetID(r.nextID)
	r.nextID++
	r.byID[u.ID()] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[u.ID()]
	if !ok || stored.Version() != u.Version()-1 {
		return domain.NewConflictError("user was modified by another request")
	}
	r.updates++
	r.byID[u.ID()] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.Email())
	}
	r.deletes++
	delete(r.byID, u.ID())
	return nil
}

func (r *fakeUserRepo) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves + r.updates + r.deletes
}

// -------------------------
// Cities, pets, adoptions
// -------------------------

type fakeCityRepo struct {
	byCode map[int]*cityDomain.City
	err    error
}

func (r *fakeCityRepo) FindByPostalCode(ctx context.Context, postalCode int) (*cityDomain.City, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.byCode[postalCode]
	if !ok {
		return nil, domain.NewNotFoundError("City", strconv.Itoa(postalCode))
	}
	return c, nil
}

type fakePetRepo struct {
	byID map[uint]*petDomain.Pet
	err  error
}

func (r *fakePetRepo) FindByID(ctx context.Context, id uint) (*petDomain.Pet, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Pet", strconv.FormatUint(uint64(id), 10))
	}
	return p, nil
}

func (r *fakePetRepo) FindByIDs(ctx context.Context, ids []uint) ([]*petDomain.Pet, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*petDomain.Pet, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePetRepo) ListAvailable(ctx context.Context) ([]*petDomain.Pet, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*petDomain.Pet, 0, len(r.byID))
	for id := uint(0); id <= 100; id++ {
		if p, ok := r.byID[id]; ok && p.Available() {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAdoptionRepo struct {
	nextID uint
	byPet  map[uint]*adoptionDomain.Adoption
}

func (r *fakeAdoptionRepo) Save(ctx context.Context, a *adoptionDomain.Adoption) error {
	if _, ok := r.byPet[a.PetID()]; ok {
		return domain.NewConflictError("pet has already been adopted")
	}
	r.nextID++
	a.SetID(r.nextID)
	r.byPet[a.PetID()] = a
	return nil
}

func (r *fakeAdoptionRepo) FindByPetID(ctx context.Context, petID uint) (*adoptionDomain.Adoption, error) {
	a, ok := r.byPet[petID]
	if !ok {
		return nil, domain.NewNotFoundError("Adoption", strconv.FormatUint(uint64(petID), 10))
	}
	return a, nil
}

// -------------------------
// Publisher
// -------------------------

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// -------------------------
// Fixtures
// -------------------------

func testPet(id uint, name string) *petDomain.Pet {
	return petDomain.Reconstruct(id, name, "dog", petDomain.SexMale, 3, "friendly", "", true, 0, []string{"vaccinated"}, 1, time.Now().UTC())
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
func zipPtr(z string) *ZipCode {
	zc := ZipCode(z)
	return &zc
}

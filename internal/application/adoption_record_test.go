package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events"
)

func TestRecordAdoption_ReleasesAdoptedPet(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	created, err := st.svc.SubmitInterest(ctx, anaRequest(42, 7))
	require.NoError(t, err)

	record, err := st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 42, UserID: created.User.ID})
	require.NoError(t, err)

	assert.Equal(t, uint(42), record.PetID)
	assert.Equal(t, created.User.ID, record.UserID)
	assert.Equal(t, uint(1), record.CityID)
	assert.NotZero(t, record.ID)
	assert.Equal(t, []uint{7}, storedInterestIDs(t, st, "a@x.com"))
	assert.Contains(t, st.publisher.types(), events.InterestWithdrawn)
}

func TestRecordAdoption_ReplayIsIdempotent(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	created, err := st.svc.SubmitInterest(ctx, anaRequest(42))
	require.NoError(t, err)
	req := RecordAdoptionRequest{PetID: 42, UserID: created.User.ID}

	first, err := st.svc.RecordAdoption(ctx, req)
	require.NoError(t, err)
	second, err := st.svc.RecordAdoption(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, st.adoptions.byPet, 1)
	assert.Equal(t, 1, st.users.updates)
}

func TestRecordAdoption_PetTakenByAnotherUser(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	ana, err := st.svc.SubmitInterest(ctx, anaRequest(42))
	require.NoError(t, err)
	bobReq := anaRequest(42)
	bobReq.FullName = strPtr("Bob")
	bobReq.Email = strPtr("b@x.com")
	bob, err := st.svc.SubmitInterest(ctx, bobReq)
	require.NoError(t, err)

	_, err = st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 42, UserID: ana.User.ID})
	require.NoError(t, err)

	_, err = st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 42, UserID: bob.User.ID})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, []uint{42}, storedInterestIDs(t, st, "b@x.com"))
}

func TestRecordAdoption_WithoutPriorInterest(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	created, err := st.svc.SubmitInterest(ctx, anaRequest(42))
	require.NoError(t, err)

	_, err = st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 8, UserID: created.User.ID})
	require.NoError(t, err)

	assert.Equal(t, []uint{42}, storedInterestIDs(t, st, "a@x.com"))
	assert.Equal(t, 0, st.users.updates)
}

func TestRecordAdoption_UnknownUserOrPet(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	created, err := st.svc.SubmitInterest(ctx, anaRequest(42))
	require.NoError(t, err)

	_, err = st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 42, UserID: 999})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 404, UserID: created.User.ID})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Empty(t, st.adoptions.byPet)
}

func TestSubmitInterest_SaveFailureIsInternal(t *testing.T) {
	st := newServiceStack()
	st.users.saveErr = errors.New("disk full")

	_, err := st.svc.SubmitInterest(context.Background(), anaRequest(42))

	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Empty(t, st.publisher.types())
}

func TestRecordAdoption_RetriesReleaseAfterLostRace(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	created, err := st.svc.SubmitInterest(ctx, anaRequest(42, 7))
	require.NoError(t, err)

	st.users.racesOnFindByID = 1
	_, err = st.svc.RecordAdoption(ctx, RecordAdoptionRequest{PetID: 42, UserID: created.User.ID})
	require.NoError(t, err)

	assert.Len(t, st.adoptions.byPet, 1)
	assert.Equal(t, []uint{7}, storedInterestIDs(t, st, "a@x.com"))
	assert.Contains(t, st.publisher.types(), events.InterestWithdrawn)
}

func TestRecordAdoption_PersistentRaceIsRetryableAndReplayRepairs(t *testing.T) {
	st := newServiceStack()
	ctx := context.Background()
	created, err := st.svc.SubmitInterest(ctx, anaRequest(42, 7))
	require.NoError(t, err)
	req := RecordAdoptionRequest{PetID: 42, UserID: created.User.ID}

	st.users.racesOnFindByID = maxReleaseAttempts
	_, err = st.svc.RecordAdoption(ctx, req)

	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Len(t, st.adoptions.byPet, 1)
	assert.Equal(t, []uint{42, 7}, storedInterestIDs(t, st, "a@x.com"))

	// The redelivered event finds the record and finishes the release.
	_, err = st.svc.RecordAdoption(ctx, req)
	require.NoError(t, err)
	assert.Len(t, st.adoptions.byPet, 1)
	assert.Equal(t, []uint{7}, storedInterestIDs(t, st, "a@x.com"))
}

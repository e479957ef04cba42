package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
)

func TestPetService_ListAvailable(t *testing.T) {
	adopted := petDomain.Reconstruct(3, "Old", "cat", petDomain.SexFemale, 9, "", "", false, 4, nil, 1, time.Now())
	repo := &fakePetRepo{byID: map[uint]*petDomain.Pet{
		1: testPet(1, "Rex"),
		2: testPet(2, "Luna"),
		3: adopted,
	}}
	svc := NewPetService(repo, zap.NewNop())

	pets, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)

	require.Len(t, pets, 2)
	assert.Equal(t, "Rex", pets[0].Name)
	assert.Equal(t, "Luna", pets[1].Name)
	assert.Equal(t, []string{"vaccinated"}, pets[0].Attributes)
}

func TestPetService_GetPet(t *testing.T) {
	svc := NewPetService(&fakePetRepo{byID: map[uint]*petDomain.Pet{42: testPet(42, "Rex")}}, zap.NewNop())

	pet, err := svc.GetPet(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), pet.ID)
	assert.Equal(t, "dog", pet.Species)

	_, err = svc.GetPet(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "There is no pet with ID 7.", err.Error())
}

func TestPetService_StoreFailure(t *testing.T) {
	svc := NewPetService(&fakePetRepo{err: errors.New("db down")}, zap.NewNop())

	_, err := svc.ListAvailable(context.Background())
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	_, err = svc.GetPet(context.Background(), 1)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/response"
)

// PetCatalog is the read-only pet listing behind PetHandler.
type PetCatalog interface {
	ListAvailable(ctx context.Context) ([]application.PetDTO, error)
	GetPet(ctx context.Context, petID uint) (*application.PetDTO, error)
}

// PetHandler handles HTTP requests for the pet catalogue.
type PetHandler struct {
	service PetCatalog
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(service PetCatalog) *PetHandler {
	return &PetHandler{service: service}
}

// RegisterRoutes registers all pet routes.
func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup) {
	pets := r.Group("/api/v1/pets")
	{
		pets.GET("", h.ListPets)
		pets.GET("/:id", h.GetPet)
	}
}

// ListPets returns every pet still open for adoption.
func (h *PetHandler) ListPets(c *gin.Context) {
	result, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPet returns a single pet by ID.
func (h *PetHandler) GetPet(c *gin.Context) {
	petID, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	result, err := h.service.GetPet(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

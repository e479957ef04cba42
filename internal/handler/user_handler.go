package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/response"
)

// AdoptionRequestService is the use case surface behind UserHandler.
type AdoptionRequestService interface {
	SubmitInterest(ctx context.Context, req application.SubmitInterestRequest) (*application.SubmitResult, error)
	ListUsers(ctx context.Context) ([]application.UserDTO, error)
	GetUser(ctx context.Context, id uint) (*application.UserDTO, error)
	DeleteUser(ctx context.Context, email string) (*application.DeleteResult, error)
	WithdrawInterest(ctx context.Context, email string, petID uint) (*application.WithdrawResult, error)
}

// UserHandler handles HTTP requests for adoption applicants and their interests.
type UserHandler struct {
	service AdoptionRequestService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service AdoptionRequestService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers all user routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/api/v1/users")
	{
		users.POST("", h.SubmitInterest)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.DELETE("/:email", h.DeleteUser)
		users.DELETE("/:email/interests/:petId", h.WithdrawInterest)
	}
}

// SubmitInterest handles POST /api/v1/users.
func (h *UserHandler) SubmitInterest(c *gin.Context) {
	var req application.SubmitInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SubmitInterest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Created {
		response.Created(c, result)
		return
	}
	response.Success(c, result)
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, users)
}

// GetUser handles GET /api/v1/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// DeleteUser handles DELETE /api/v1/users/:email.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	result, err := h.service.DeleteUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, result.Message, result)
}

// WithdrawInterest handles DELETE /api/v1/users/:email/interests/:petId.
func (h *UserHandler) WithdrawInterest(c *gin.Context) {
	petID, err := parseID(c.Param("petId"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	result, err := h.service.WithdrawInterest(c.Request.Context(), c.Param("email"), petID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, result.Message, result)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

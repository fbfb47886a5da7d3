package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akyravish/secure-user-service/internal/api/dto"
	"github.com/akyravish/secure-user-service/internal/auth"
	"github.com/akyravish/secure-user-service/internal/requestid"
	"github.com/akyravish/secure-user-service/internal/service"
	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

// UsersHandler exposes user CRUD endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /api/v1/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.UserContext(), service.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{
		Data:      user.Public(),
		Message:   "User created successfully",
		RequestID: requestid.FromContext(c),
	})
}

// Me handles GET /api/v1/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	user, err := h.users.GetUserByID(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.SuccessResponse{
		Data:      user.Public(),
		RequestID: requestid.FromContext(c),
	})
}

// UpdateMe handles PATCH /api/v1/users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request payload")
	}
	if req.Empty() {
		return apperrors.NewValidationError("At least one field must be provided")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.UserContext(), principal.ID, service.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.SuccessResponse{
		Data:      user.Public(),
		Message:   "User updated successfully",
		RequestID: requestid.FromContext(c),
	})
}

// DeleteMe handles DELETE /api/v1/users/me.
func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	if err := h.users.DeleteUser(c.UserContext(), principal.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

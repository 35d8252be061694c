package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/task-manager/internal/core/domain"
	"github.com/taskdesk/task-manager/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List all users
// @Description  Password hashes are never included.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse  "No users found"
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Create handles POST /users (signup).
//
// @Summary      Sign up a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse  "Roles other than Employee requested"
// @Failure      409   {object}  messageResponse  "Username or email already exists"
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	// Signup is public: elevated roles are granted later by a manager.
	for _, role := range req.Roles {
		if role != domain.RoleEmployee {
			return domain.ErrForbidden
		}
	}

	user, err := h.service.CreateUser(c.Request().Context(), toCreateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("New user %s created", user.Username),
		ID:      user.ID,
	})
}

// Update handles PATCH /users. Managers and admins may update anyone; other
// users may only update themselves and cannot change their roles or active
// flag.
//
// @Summary      Update a user
// @Description  Full name, email and password are optional; omitted values are kept.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "User fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /users [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	callerID, roles, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if !isManager(roles) {
		if callerID != req.ID {
			return domain.ErrForbidden
		}
		current, err := h.service.GetUser(c.Request().Context(), req.ID)
		if err != nil {
			return err
		}
		if current.Active != *req.Active || !sameRoles(current.Roles, req.Roles) {
			return domain.ErrForbidden
		}
	}

	user, err := h.service.UpdateUser(c.Request().Context(), toUpdateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("%s updated", user.Username),
		ID:      user.ID,
	})
}

// Delete handles DELETE /users.
//
// @Summary      Delete a user
// @Description  Refused while any task references the user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteRequest  true  "User ID"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse  "User has assigned tasks"
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /users [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID required")
	}

	user, err := h.service.DeleteUser(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("User %s with ID %s deleted", user.Username, user.ID),
		ID:      user.ID,
	})
}

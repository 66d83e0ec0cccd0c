package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/model"
	"storefront/internal/service"
)

// UserHandler handles profile and admin user management endpoints.
type UserHandler struct {
	userService  service.UserService
	orderService service.OrderService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, orderService service.OrderService) *UserHandler {
	return &UserHandler{userService: userService, orderService: orderService}
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// AdminUpdateUserRequest additionally allows changing the role.
type AdminUpdateUserRequest struct {
	UpdateUserRequest
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=admin customer"`
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.User
// @Security BearerAuth
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), claims.UserID, service.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteProfile godoc
// @Summary Soft-delete the authenticated user and cascade to their orders
// @Tags users
// @Success 204
// @Security BearerAuth
// @Router /users/profile [delete]
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.Request().Context(), claims.UserID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProfileOrders godoc
// @Summary List the authenticated user's orders
// @Tags users
// @Produce json
// @Success 200 {array} model.Order
// @Security BearerAuth
// @Router /users/profile/orders [get]
func (h *UserHandler) ListProfileOrders(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	orders, err := h.orderService.ListOrdersByUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListUsers godoc
// @Summary List users (admin)
// @Tags users
// @Produce json
// @Param include_deleted query bool false "Include soft-deleted users"
// @Success 200 {array} model.User
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context(), includeDeleted(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user by id (admin)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param include_deleted query bool false "Include soft-deleted users"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id, includeDeleted(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUserOrders godoc
// @Summary List a user's orders (admin)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} model.Order
// @Security BearerAuth
// @Router /users/{id}/orders [get]
func (h *UserHandler) ListUserOrders(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userService.GetUser(c.Request().Context(), id, false); err != nil {
		return respondError(c, err)
	}
	orders, err := h.orderService.ListOrdersByUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateUser godoc
// @Summary Update a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} model.User
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req AdminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Soft-delete a user and cascade to their orders (admin)
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

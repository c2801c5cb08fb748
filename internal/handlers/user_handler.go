package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liuwen-dev/vocana/internal/domains/user"
	"github.com/liuwen-dev/vocana/pkg/Logger"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService user.UserService
	logger      *Logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService user.UserService, logger *Logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	created, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "User already exists"})
		default:
			h.logger.Errorf("user creation error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{
		Message: "User created successfully",
		User:    *created,
	})
}

// GetCurrentUser handles GET /api/v1/me, resolving the caller from the
// identity middleware.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	u, err := h.userService.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Errorf("get current user error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Errorf("get user error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// UpdateUser handles PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Errorf("update user error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, UpdateUserResponse{
		Message: "User updated successfully",
		User:    *updated,
	})
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Errorf("delete user error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User deleted successfully"})
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		h.logger.Errorf("list users error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, ListUsersResponse{
		Users: users,
		Pagination: PaginationInfo{
			Total:  total,
			Offset: offset,
			Limit:  limit,
		},
	})
}

// GetStats handles GET /api/v1/users/:id/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.userService.GetStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Errorf("user stats error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{Stats: *stats})
}

// IssueToken handles POST /api/v1/users/:id/token
func (h *UserHandler) IssueToken(c *gin.Context) {
	token, expiresAt, err := h.userService.IssueToken(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Errorf("token issue error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

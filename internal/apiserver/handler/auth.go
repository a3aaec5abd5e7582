package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		errorx.Send(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		errorx.Send(c, errorx.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User: dto.UserInfo{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			Role:     string(user.Role),
		},
	})
}

// Me returns the account behind the presented token.
func (h *Handler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.users.Profile(c.Request.Context(), p)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserInfo{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
	})
}

// ListUsers returns all staff accounts. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	users, err := h.users.List(c.Request.Context(), p)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser adds a staff account. Admin only.
func (h *Handler) CreateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	user, err := h.users.Create(c.Request.Context(), p, &req)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser edits a staff account. Admin only.
func (h *Handler) UpdateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	user, err := h.users.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

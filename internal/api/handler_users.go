package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixture-tracker-backend/internal/model"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"required,oneof=superuser user"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type updateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=64"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=superuser user"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

func (r updateUserRequest) fields() map[string]any {
	fields := make(map[string]any)
	setField(fields, "username", r.Username)
	setField(fields, "email", r.Email)
	setField(fields, "role", r.Role)
	setField(fields, "password", r.Password)
	return fields
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	handleGet(h, c, h.store.GetUser)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	u := model.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	}
	if err := h.store.CreateUser(c.Request.Context(), &u); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	handleUpdate(h, c, "User", req.fields(), h.store.UpdateUser)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	handleDelete(h, c, "User", h.store.DeleteUser)
}

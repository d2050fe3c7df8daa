package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-market/internal/domain"
	"car-market/internal/service"
)

const registerSecretHeader = "X-Register-Password"

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var in service.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), in, c.GetHeader(registerSecretHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var in service.LoginInput
	if err := bindJSON(c, &in); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: userToResponse(user)})
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), c.GetString(callerIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in service.ProfileUpdateInput
	if err := bindJSON(c, &in); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), c.GetString(callerIDKey), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.UTC().Format(isoTime),
		UpdatedAt: user.UpdatedAt.UTC().Format(isoTime),
	}
}

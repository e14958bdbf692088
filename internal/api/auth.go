package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-app/backend/internal/middleware"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/types"
)

// AuthHandler serves token login and logout.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/token/login", h.Login)
		auth.POST("/token/logout", middleware.AuthMiddleware(h.authService), h.Logout)
	}
}

// Login exchanges an email/password pair for the user's opaque token.
// Every failure cause produces the same payload.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"email and password are required"}})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("token issue failed for user %s: %v", user.ID, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{AuthToken: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	if err := h.authService.RevokeToken(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

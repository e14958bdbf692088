package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram-app/backend/internal/middleware"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/types"
)

// UserHandler serves registration, user reads and the subscription
// toggle.
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optional, h.ListUsers)
		users.GET("/me", auth, h.Me)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewUserResponse(user, false))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.userService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	subscribed := h.userService.SubscribedSet(c.Request.Context(), requesterID(c), ids)

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], subscribed[users[i].ID]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	subscribed := h.userService.IsSubscribed(c.Request.Context(), requesterID(c), user.ID)
	c.JSON(http.StatusOK, types.NewUserResponse(user, subscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user, false))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	author, err := h.userService.Get(c.Request.Context(), authorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	_, created, err := h.userService.Subscribe(c.Request.Context(), userID, author.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewUserResponse(author, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.userService.Get(c.Request.Context(), authorID); err != nil {
		respondServiceError(c, err)
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if _, err := h.userService.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func requesterID(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}

package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialpet/backend/internal/middleware"
	"github.com/socialpet/backend/internal/models"
	"github.com/socialpet/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles profile and social-graph HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user profile and follow routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/:id", h.GetUser)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/:id/follow", h.FollowToggle)
}

// GetUser returns a user's profile with followers and following resolved to
// public summaries.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}

	profile, err := h.resolveProfile(ctx, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial update of username, avatar and bio to the
// authenticated user.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	selfID, httpErr := callerID(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	if req.Username != nil {
		taken, err := h.userRepository.IsUsernameTaken(ctx, *req.Username, selfID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to update profile")
		}
		if taken {
			return echo.NewHTTPError(http.StatusBadRequest, "This username is already taken")
		}
	}

	user, err := h.userRepository.UpdateProfile(ctx, selfID, repositories.ProfileUpdate{
		Username: req.Username,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, user)
}

// FollowToggle follows the target user when no edge exists and unfollows
// otherwise. Returns the updated caller profile with resolved summaries.
func (h *UserHandler) FollowToggle(c echo.Context) error {
	actorID, httpErr := callerID(c)
	if httpErr != nil {
		return httpErr
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if actorID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	ctx := c.Request().Context()
	actor, err := h.userRepository.ToggleFollow(ctx, actorID, targetID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update follow state")
	}

	profile, err := h.resolveProfile(ctx, actor)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}
	return c.JSON(http.StatusOK, profile)
}

// resolveProfile replaces the user's edge id sets with public summaries.
func (h *UserHandler) resolveProfile(ctx context.Context, user *models.User) (*models.ProfileResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(user.Following)+len(user.Followers))
	ids = append(ids, user.Following...)
	ids = append(ids, user.Followers...)

	summaries, err := h.userRepository.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	profile := &models.ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Avatar:    user.Avatar,
		Bio:       user.Bio,
		Following: []models.UserSummary{},
		Followers: []models.UserSummary{},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for _, id := range user.Following {
		if s, ok := summaries[id]; ok {
			profile.Following = append(profile.Following, s)
		}
	}
	for _, id := range user.Followers {
		if s, ok := summaries[id]; ok {
			profile.Followers = append(profile.Followers, s)
		}
	}
	return profile, nil
}

// callerID resolves the authenticated caller's user id from the claims the
// JWT guard attached to the request.
func callerID(c echo.Context) (primitive.ObjectID, *echo.HTTPError) {
	claims := middleware.Claims(c)
	if claims == nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return id, nil
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialpet/backend/internal/models"
	"github.com/socialpet/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers the bearer-protected post routes; ListPosts is
// registered separately on the open surface.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("", h.CreatePost)
	g.POST("/:id/like", h.ToggleLike)
	g.POST("/:id/comments", h.AddComment)
	g.DELETE("/:id", h.DeletePost)
}

// CreatePost creates a new post authored by the caller.
func (h *PostHandler) CreatePost(c echo.Context) error {
	authorID, httpErr := callerID(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	post := &models.Post{
		Content: req.Content,
		Image:   req.Image,
		Author:  authorID,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to create post",
			"error":   err.Error(),
		})
	}

	resp, err := h.resolvePost(ctx, post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListPosts returns all posts newest-first with author and comment-author
// summaries resolved.
func (h *PostHandler) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := h.postRepository.GetAllPosts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load posts")
	}

	responses := make([]*models.PostResponse, 0, len(posts))
	ids := make([]primitive.ObjectID, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].Author)
		for _, cm := range posts[i].Comments {
			ids = append(ids, cm.Author)
		}
	}
	summaries, err := h.userRepository.Summaries(ctx, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load posts")
	}
	for i := range posts {
		responses = append(responses, buildPostResponse(&posts[i], summaries))
	}

	return c.JSON(http.StatusOK, responses)
}

// ToggleLike flips the caller's membership in the post's likes set.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, httpErr := callerID(c)
	if httpErr != nil {
		return httpErr
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.ToggleLike(ctx, postID, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update likes")
	}

	resp, err := h.resolvePost(ctx, post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusOK, resp)
}

// AddComment appends a comment by the caller to the post.
func (h *PostHandler) AddComment(c echo.Context) error {
	authorID, httpErr := callerID(c)
	if httpErr != nil {
		return httpErr
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.AddComment(ctx, postID, models.Comment{
		Content:   req.Content,
		Author:    authorID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add comment")
	}

	resp, err := h.resolvePost(ctx, post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusOK, resp)
}

// DeletePost deletes a post; only the author may delete it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, httpErr := callerID(c)
	if httpErr != nil {
		return httpErr
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}

	if post.Author != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to delete this post")
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}

// resolvePost resolves the author summaries for a single post.
func (h *PostHandler) resolvePost(ctx context.Context, post *models.Post) (*models.PostResponse, error) {
	ids := make([]primitive.ObjectID, 0, 1+len(post.Comments))
	ids = append(ids, post.Author)
	for _, cm := range post.Comments {
		ids = append(ids, cm.Author)
	}
	summaries, err := h.userRepository.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	return buildPostResponse(post, summaries), nil
}

func buildPostResponse(post *models.Post, summaries map[primitive.ObjectID]models.UserSummary) *models.PostResponse {
	resp := &models.PostResponse{
		ID:        post.ID,
		Content:   post.Content,
		Image:     post.Image,
		Author:    summaries[post.Author],
		Likes:     post.Likes,
		Comments:  make([]models.CommentResponse, 0, len(post.Comments)),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if resp.Likes == nil {
		resp.Likes = []primitive.ObjectID{}
	}
	for _, cm := range post.Comments {
		resp.Comments = append(resp.Comments, models.CommentResponse{
			Content:   cm.Content,
			Author:    summaries[cm.Author],
			CreatedAt: cm.CreatedAt,
		})
	}
	return resp
}

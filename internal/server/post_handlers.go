package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/post
// @Summary Create post
// @Description Publishes a post under the caller's name and avatar.
// @Tags posts
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body object{text=string} true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/post
// @Summary List posts
// @Description Returns all posts, newest first.
// @Tags posts
// @Produce json
// @Security TokenAuth
// @Success 200 {array} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Router /post [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/post/:id
// @Summary Get post
// @Description Returns a single post.
// @Tags posts
// @Produce json
// @Security TokenAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.Respond(c, models.NewNotFoundError("Post not found"))
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

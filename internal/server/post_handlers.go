package server

import (
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

const postCreatedFlash = "Your post has been created"

// Index handles GET / with every post in insertion order.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, "index", fiber.Map{
		"Posts":       posts,
		"CurrentTime": time.Now().UTC(),
	})
}

// ShowWritePost handles GET /post
func (s *Server) ShowWritePost(c *fiber.Ctx) error {
	return s.render(c, "write_post", fiber.Map{
		"Title":  "Write a post",
		"Post":   &models.Post{},
		"Action": "/post",
	})
}

// CreatePost handles POST /post
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ident := currentIdentity(c)

	_, err := s.postService.CreatePost(ctx, ident, service.CreatePostInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	})
	if err != nil {
		if models.HasCode(err, models.CodeDuplicatePostField) || models.HasCode(err, models.CodeValidation) {
			return c.Redirect("/post", fiber.StatusSeeOther)
		}
		return err
	}

	if err := s.sessions.AddFlash(ctx, ident.SessionID, postCreatedFlash); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to queue flash message", slog.String("error", err.Error()))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// ShowEditPost handles GET /post/:id/edit
func (s *Server) ShowEditPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postService.GetPostForEdit(c.UserContext(), currentIdentity(c), id)
	if err != nil {
		return err
	}

	return s.render(c, "write_post", fiber.Map{
		"Title":  "Edit post",
		"Post":   post,
		"Action": fmt.Sprintf("/post/%d/edit", post.ID),
	})
}

// EditPost handles POST /post/:id/edit
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	_, err = s.postService.EditPost(c.UserContext(), currentIdentity(c), service.EditPostInput{
		PostID:  id,
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	})
	if err != nil {
		if models.HasCode(err, models.CodeValidation) {
			return c.Redirect(fmt.Sprintf("/post/%d/edit", id), fiber.StatusSeeOther)
		}
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// DeletePost handles GET /post/:id/delete/
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := s.postService.DeletePost(c.UserContext(), currentIdentity(c), id); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

const identityLocal = "identity"

// LoadSession resolves the session cookie once per request. Invalid or
// logged-out tokens leave the caller anonymous and clear the cookie; a store
// outage leaves the caller anonymous but keeps the cookie.
func (s *Server) LoadSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return c.Next()
		}

		ident, err := s.authService.Resolve(c.UserContext(), token)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session lookup failed, serving anonymously",
				slog.String("error", err.Error()))
			return c.Next()
		}
		if ident == nil {
			s.clearSessionCookie(c)
			return c.Next()
		}

		c.Locals(identityLocal, ident)
		c.Locals(middleware.LocalUserID, ident.UserID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, ident.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// LoginRequired redirects anonymous callers to the login page.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentIdentity(c) == nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

func currentIdentity(c *fiber.Ctx) *models.Identity {
	ident, _ := c.Locals(identityLocal).(*models.Identity)
	return ident
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.sessions.TTL()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// render fills the fields every page layout reads and pops pending flash messages.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	ident := currentIdentity(c)

	var flashes []string
	if ident != nil {
		popped, err := s.sessions.PopFlashes(c.UserContext(), ident.SessionID)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to read flash messages", slog.String("error", err.Error()))
		}
		flashes = popped
	}

	bind := fiber.Map{
		"Title":   "",
		"User":    ident,
		"Flashes": flashes,
	}
	for k, v := range data {
		bind[k] = v
	}
	return c.Render(name, bind)
}

func (s *Server) renderStatic(name, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.render(c, name, fiber.Map{"Title": title})
	}
}

// parsePostID reads the :id route parameter. Anything but a positive integer
// is treated as a missing post.
func parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params("id"))
	}
	return uint(id), nil
}

// handleError is the fiber ErrorHandler. Missing resources render a 404 page,
// gated actions redirect to login, everything else is logged and rendered as 500.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	if models.HasCode(err, models.CodeAuthRequired) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	code := fiber.StatusInternalServerError
	message := "Something went wrong on our side. Please try again later."

	var fiberErr *fiber.Error
	switch {
	case models.HasCode(err, models.CodeNotFound):
		code = fiber.StatusNotFound
		message = "The page you were looking for does not exist."
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
	}

	c.Status(code)
	if renderErr := s.render(c, "error", fiber.Map{
		"Title":   fmt.Sprintf("Error %d", code),
		"Status":  code,
		"Message": message,
	}); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2 Jan 2006 15:04 UTC")
}

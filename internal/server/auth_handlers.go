package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ShowSignup handles GET /signup
func (s *Server) ShowSignup(c *fiber.Ctx) error {
	return s.render(c, "register", fiber.Map{"Title": "Sign up"})
}

// Signup handles POST /signup. Rejected registrations go back to the form
// without saying which field was the problem.
func (s *Server) Signup(c *fiber.Ctx) error {
	_, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Username:  c.FormValue("username"),
		Age:       c.FormValue("age"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Confirm:   c.FormValue("confirm"),
	})
	if err != nil {
		if models.HasCode(err, models.CodeDuplicateRegistrationField) || models.HasCode(err, models.CodeValidation) {
			return c.Redirect("/signup", fiber.StatusSeeOther)
		}
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// ShowLogin handles GET /login
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return s.render(c, "login", fiber.Map{"Title": "Log in"})
}

// Login handles POST /login. Bad credentials re-render the form with no message.
func (s *Server) Login(c *fiber.Ctx) error {
	ident, token, err := s.authService.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if models.HasCode(err, models.CodeInvalidCredentials) {
			return s.render(c, "login", fiber.Map{"Title": "Log in"})
		}
		return err
	}

	s.setSessionCookie(c, token)
	c.Locals(identityLocal, ident)
	return c.Redirect("/post", fiber.StatusSeeOther)
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), currentIdentity(c)); err != nil {
		return err
	}
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Package service holds the blog's business rules between the HTTP layer and the repositories.
package service

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/session"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// SessionManager opens, resolves and closes login sessions.
type SessionManager interface {
	Open(ctx context.Context, userID uint, username string) (string, *models.Identity, error)
	Resolve(ctx context.Context, token string) (*models.Identity, error)
	Close(ctx context.Context, sessionID string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	sessions SessionManager
	flags    *featureflags.Manager
	hashCost int
}

// RegisterInput is the signup form. Age arrives as submitted text.
// Confirm is accepted but not compared with Password.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Age       string
	Email     string
	Password  string
	Confirm   string
}

func NewAuthService(userRepo repository.UserRepository, sessions SessionManager, flags *featureflags.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		flags:    flags,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates a user unless any of the identity fields is already taken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (_ *models.User, err error) {
	ctx, end := observability.StartSpan(ctx, "auth.register")
	defer func() {
		end(err)
		middleware.AuthEvents.WithLabelValues("register", outcome(err)).Inc()
	}()

	if err := validation.RequireFields(
		validation.Field{Name: "first_name", Value: in.FirstName},
		validation.Field{Name: "last_name", Value: in.LastName},
		validation.Field{Name: "username", Value: in.Username},
		validation.Field{Name: "email", Value: in.Email},
		validation.Field{Name: "password", Value: in.Password},
	); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	age, err := validation.ParseAge(in.Age)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	for _, check := range s.duplicateChecks(in) {
		taken, err := s.userRepo.ExistsBy(ctx, check.field, check.value)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewDuplicateRegistrationError()
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Age:          age,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("new_user_id", uint64(user.ID)))
	return user, nil
}

type fieldCheck struct {
	field repository.UserField
	value string
}

// duplicateChecks lists the registration re-use checks in evaluation order.
func (s *AuthService) duplicateChecks(in RegisterInput) []fieldCheck {
	if s.flags.Enabled(featureflags.RegistrationUsernameEmailOnly, 0) {
		return []fieldCheck{
			{repository.UserFieldUsername, in.Username},
			{repository.UserFieldEmail, in.Email},
		}
	}
	return []fieldCheck{
		{repository.UserFieldFirstName, in.FirstName},
		{repository.UserFieldLastName, in.LastName},
		{repository.UserFieldUsername, in.Username},
		{repository.UserFieldEmail, in.Email},
	}
}

// Login verifies credentials and opens a session, returning its identity and cookie token.
func (s *AuthService) Login(ctx context.Context, username, password string) (_ *models.Identity, _ string, err error) {
	ctx, end := observability.StartSpan(ctx, "auth.login", attribute.String("username", username))
	defer func() {
		end(err)
		middleware.AuthEvents.WithLabelValues("login", outcome(err)).Inc()
	}()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewInvalidCredentialsError()
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); cmpErr != nil {
		return nil, "", models.NewInvalidCredentialsError()
	}

	token, ident, err := s.sessions.Open(ctx, user.ID, user.Username)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return ident, token, nil
}

// Logout closes the caller's session.
func (s *AuthService) Logout(ctx context.Context, ident *models.Identity) (err error) {
	defer func() {
		middleware.AuthEvents.WithLabelValues("logout", outcome(err)).Inc()
	}()

	if ident == nil {
		return models.NewAuthRequiredError()
	}
	if err := s.sessions.Close(ctx, ident.SessionID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Resolve maps a cookie token to an identity. A forged, expired or closed
// session resolves to (nil, nil); a store failure is returned so the caller can
// keep the cookie for a later request.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}
	ident, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ident, nil
}

func (s *AuthService) CountUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// outcome labels metrics by the AppError code, or "success".
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return models.CodeInternal
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"inkwell/internal/featureflags"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(flags string) (*AuthService, *[]models.User) {
	repo, users := memUserRepo()
	sessions := session.NewManager(session.NewMemoryStore(), "service-test-secret-0123456789abcdef", time.Hour)
	svc := NewAuthService(repo, sessions, featureflags.NewManager(flags))
	svc.hashCost = bcrypt.MinCost
	return svc, users
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Age:       "36",
		Email:     "ada@example.com",
		Password:  "engine",
		Confirm:   "something else entirely",
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, users := newAuthService("")
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, 36, user.Age)
	require.Len(t, *users, 1)

	stored := (*users)[0]
	assert.NotEqual(t, "engine", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("engine")))
}

func TestAuthService_Register_DuplicateFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"Same Username", func(in *RegisterInput) {
			in.FirstName, in.LastName, in.Email = "Grace", "Hopper", "grace@example.com"
		}},
		{"Same First Name", func(in *RegisterInput) {
			in.LastName, in.Username, in.Email = "Byron", "ada2", "ada2@example.com"
		}},
		{"Same Last Name", func(in *RegisterInput) {
			in.FirstName, in.Username, in.Email = "Augusta", "ada3", "ada3@example.com"
		}},
		{"Same Email", func(in *RegisterInput) {
			in.FirstName, in.LastName, in.Username = "Grace", "Hopper", "grace"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users := newAuthService("")
			ctx := context.Background()

			_, err := svc.Register(ctx, validRegistration())
			require.NoError(t, err)

			in := validRegistration()
			tt.mutate(&in)
			_, err = svc.Register(ctx, in)
			assertAppErrorCode(t, err, models.CodeDuplicateRegistrationField)
			assert.Len(t, *users, 1)
		})
	}
}

func TestAuthService_Register_UsernameEmailOnlyFlag(t *testing.T) {
	svc, users := newAuthService(featureflags.RegistrationUsernameEmailOnly + "=on")
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Username, in.Email = "ada2", "ada2@example.com"
	_, err = svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Len(t, *users, 2)

	in.Email = "fresh@example.com"
	_, err = svc.Register(ctx, in)
	assertAppErrorCode(t, err, models.CodeDuplicateRegistrationField)
}

func TestAuthService_Register_CheckOrder(t *testing.T) {
	repo, _ := memUserRepo()
	var checked []repository.UserField
	repo.existsByFn = func(_ context.Context, field repository.UserField, _ string) (bool, error) {
		checked = append(checked, field)
		return field == repository.UserFieldLastName, nil
	}
	svc := NewAuthService(repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegistration())
	assertAppErrorCode(t, err, models.CodeDuplicateRegistrationField)
	assert.Equal(t, []repository.UserField{repository.UserFieldFirstName, repository.UserFieldLastName}, checked)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"Missing Username", func(in *RegisterInput) { in.Username = "" }},
		{"Missing Password", func(in *RegisterInput) { in.Password = "" }},
		{"Non Numeric Age", func(in *RegisterInput) { in.Age = "old" }},
		{"Negative Age", func(in *RegisterInput) { in.Age = "-3" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users := newAuthService("")
			in := validRegistration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			assertAppErrorCode(t, err, models.CodeValidation)
			assert.Empty(t, *users)
		})
	}
}

func TestAuthService_Register_RepositoryError(t *testing.T) {
	repo, _ := memUserRepo()
	repo.existsByFn = func(context.Context, repository.UserField, string) (bool, error) {
		return false, models.NewInternalError(errors.New("db down"))
	}
	svc := NewAuthService(repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegistration())
	assertAppErrorCode(t, err, models.CodeInternal)
}

func TestAuthService_LoginLogout(t *testing.T) {
	svc, _ := newAuthService("")
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada", "wrong")
	assertAppErrorCode(t, err, models.CodeInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "engine")
	assertAppErrorCode(t, err, models.CodeInvalidCredentials)

	ident, token, err := svc.Login(ctx, "ada", "engine")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, ident.UserID, resolved.UserID)

	require.NoError(t, svc.Logout(ctx, resolved))
	resolved, err = svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	assertAppErrorCode(t, svc.Logout(ctx, nil), models.CodeAuthRequired)
}

func TestAuthService_ResolveGarbage(t *testing.T) {
	svc, _ := newAuthService("")
	for _, token := range []string{"", "garbage"} {
		ident, err := svc.Resolve(context.Background(), token)
		assert.NoError(t, err)
		assert.Nil(t, ident)
	}
}

type failingSessions struct {
	SessionManager
	err error
}

func (f failingSessions) Resolve(context.Context, string) (*models.Identity, error) {
	return nil, f.err
}

func TestAuthService_ResolveSurfacesStoreFailure(t *testing.T) {
	repo, _ := memUserRepo()
	storeErr := errors.New("load session: dial tcp: connection refused")
	svc := NewAuthService(repo, failingSessions{err: storeErr}, nil)

	ident, err := svc.Resolve(context.Background(), "some.signed.token")
	assert.Nil(t, ident)
	assert.ErrorIs(t, err, storeErr)

	svc = NewAuthService(repo, failingSessions{err: fmt.Errorf("wrapped: %w", session.ErrNotFound)}, nil)
	ident, err = svc.Resolve(context.Background(), "some.signed.token")
	assert.NoError(t, err)
	assert.Nil(t, ident)
}

func TestAuthService_CountAndList(t *testing.T) {
	svc, _ := newAuthService("")
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	n, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	users, err := svc.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

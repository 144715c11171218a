package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByUsernameFn func(context.Context, string) (*models.User, error)
	existsByFn      func(context.Context, repository.UserField, string) (bool, error)
	createFn        func(context.Context, *models.User) error
	countFn         func(context.Context) (int64, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsBy(ctx context.Context, field repository.UserField, value string) (bool, error) {
	return s.existsByFn(ctx, field, value)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// memUserRepo wires a userRepoStub to an in-memory slice.
func memUserRepo() (*userRepoStub, *[]models.User) {
	users := &[]models.User{}
	stub := &userRepoStub{
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			for i := range *users {
				if (*users)[i].Username == username {
					u := (*users)[i]
					return &u, nil
				}
			}
			return nil, nil
		},
		existsByFn: func(_ context.Context, field repository.UserField, value string) (bool, error) {
			for _, u := range *users {
				var got string
				switch field {
				case repository.UserFieldFirstName:
					got = u.FirstName
				case repository.UserFieldLastName:
					got = u.LastName
				case repository.UserFieldUsername:
					got = u.Username
				case repository.UserFieldEmail:
					got = u.Email
				}
				if got == value {
					return true, nil
				}
			}
			return false, nil
		},
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = uint(len(*users) + 1)
			*users = append(*users, *u)
			return nil
		},
		countFn: func(_ context.Context) (int64, error) { return int64(len(*users)), nil },
		listFn:  func(_ context.Context, _, _ int) ([]models.User, error) { return *users, nil },
	}
	return stub, users
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	listFn            func(context.Context) ([]models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	existsByTitleFn   func(context.Context, string) (bool, error)
	existsByContentFn func(context.Context, string) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.existsByTitleFn(ctx, title)
}
func (s *postRepoStub) ExistsByContent(ctx context.Context, content string) (bool, error) {
	return s.existsByContentFn(ctx, content)
}

// memPostRepo wires a postRepoStub to an in-memory ordered slice.
func memPostRepo() (*postRepoStub, *[]models.Post) {
	posts := &[]models.Post{}
	nextID := uint(0)
	find := func(id uint) int {
		for i := range *posts {
			if (*posts)[i].ID == id {
				return i
			}
		}
		return -1
	}
	stub := &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			nextID++
			p.ID = nextID
			*posts = append(*posts, *p)
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			i := find(id)
			if i < 0 {
				return nil, models.NewNotFoundError("Post", id)
			}
			p := (*posts)[i]
			return &p, nil
		},
		listFn: func(_ context.Context) ([]models.Post, error) {
			return append([]models.Post(nil), *posts...), nil
		},
		updateFn: func(_ context.Context, p *models.Post) error {
			i := find(p.ID)
			if i < 0 {
				return models.NewNotFoundError("Post", p.ID)
			}
			(*posts)[i].Title = p.Title
			(*posts)[i].Content = p.Content
			return nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			i := find(id)
			if i < 0 {
				return models.NewNotFoundError("Post", id)
			}
			*posts = append((*posts)[:i], (*posts)[i+1:]...)
			return nil
		},
		existsByTitleFn: func(_ context.Context, title string) (bool, error) {
			for _, p := range *posts {
				if p.Title == title {
					return true, nil
				}
			}
			return false, nil
		},
		existsByContentFn: func(_ context.Context, content string) (bool, error) {
			for _, p := range *posts {
				if p.Content == content {
					return true, nil
				}
			}
			return false, nil
		},
	}
	return stub, posts
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// UserField names a user column that registration checks for re-use.
type UserField string

const (
	UserFieldFirstName UserField = "first_name"
	UserFieldLastName  UserField = "last_name"
	UserFieldUsername  UserField = "username"
	UserFieldEmail     UserField = "email"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsBy(ctx context.Context, field UserField, value string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByUsername returns nil, nil when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsBy(ctx context.Context, field UserField, value string) (bool, error) {
	switch field {
	case UserFieldFirstName, UserFieldLastName, UserFieldUsername, UserFieldEmail:
	default:
		return false, models.NewInternalError(fmt.Errorf("unsupported user field %q", field))
	}

	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(fmt.Sprintf("%s = ?", field), value).
		Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateRegistrationError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

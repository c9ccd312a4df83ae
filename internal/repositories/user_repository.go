package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type UserRepositoryInterface interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*db_models.User, error)
}

func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

type UserRepository struct {
	db *gorm.DB
}

func (u UserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leaveflow/internal/directory"
)

// Repository reads and writes the same users table the directory serves.
type Repository interface {
	Create(ctx context.Context, user *directory.User) error
	GetByEmail(ctx context.Context, email string) (*directory.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*directory.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *directory.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*directory.User, error) {
	var user directory.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*directory.User, error) {
	var user directory.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return &user, err
}

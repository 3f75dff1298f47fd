package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leaveflow/internal/identity"
)

type gormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory resolves profiles straight from the users table.
func NewGormDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) Resolve(ctx context.Context, userID uuid.UUID) (Profile, error) {
	var u User
	err := d.db.WithContext(ctx).First(&u, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}
	return u.Profile(), nil
}

func (d *gormDirectory) ResolveMany(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var users []User
	err := d.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, len(users))
	for i, u := range users {
		profiles[i] = u.Profile()
	}
	return profiles, nil
}

func (d *gormDirectory) ListDepartment(ctx context.Context, department string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&User{}).
		Where("department = ?", department).
		Pluck("id", &ids).Error
	return ids, err
}

func (d *gormDirectory) FindDepartmentSuperUser(ctx context.Context, department string) (*Profile, error) {
	var u User
	err := d.db.WithContext(ctx).
		Where("department = ?", department).
		Where("role = ?", identity.RoleSuperUser).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	p := u.Profile()
	return &p, nil
}

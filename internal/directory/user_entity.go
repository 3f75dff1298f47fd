package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string    `gorm:"type:varchar(120);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	Department   string    `gorm:"type:varchar(80);not null;index:idx_users_department"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_users_deleted_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

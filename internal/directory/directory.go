package directory

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"leaveflow/internal/shared/apperror"
)

// Profile is the directory view of a user: just enough identity to make
// authorization and enrichment decisions.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
}

type Directory interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Profile, error)
	ResolveMany(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error)
	ListDepartment(ctx context.Context, department string) ([]uuid.UUID, error)
	FindDepartmentSuperUser(ctx context.Context, department string) (*Profile, error)
}

var ErrUserNotFound = apperror.New(
	apperror.CodeNotFound,
	"user not found in directory",
	http.StatusNotFound,
)

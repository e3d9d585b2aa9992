package users

import (
	"context"

	"github.com/dmitrijs2005/inotebook/internal/server/models"
)

// Repository is the credential store.
//
// Create fails with common.ErrorDuplicate when the username or email is taken.
// The lookups fail with common.ErrorNotFound when no user matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

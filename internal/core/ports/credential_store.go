package ports

import (
	"context"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// CredentialStore isolates the services from the record store's query
// dialect. Lookups return (nil, nil) when no record matches; transport
// failures come back as domain.ErrStoreUnavailable. Inserts report unique
// constraint violations as domain.ErrUsernameTaken or domain.ErrEmailTaken.
type CredentialStore interface {
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	InsertUser(ctx context.Context, user *domain.User) (*domain.User, error)
	InsertCompany(ctx context.Context, company *domain.Company) (*domain.Company, error)

	FindCompanyByUserID(ctx context.Context, userID int64) (*domain.Company, error)
	UpdateUserProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
}

// AtomicCompanyRegistrar is implemented by stores that can insert a user and
// its company in one transaction. The returned Company's UserID references
// the new user.
type AtomicCompanyRegistrar interface {
	InsertUserWithCompany(ctx context.Context, user *domain.User, company *domain.Company) (*domain.User, *domain.Company, error)
}

package ports

import (
	"context"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// RegisterUserInput carries the user half of a registration form.
type RegisterUserInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	Name            string
	Phone           string
	Location        string
	Bio             string
	ProfilePicture  string
	CVURL           string
}

// RegisterCompanyInput carries the company half of a company registration.
type RegisterCompanyInput struct {
	Name        string
	Industry    string
	Location    string
	Website     string
	Description string
}

// AuthService is the session manager: it owns login, registration, logout
// and resolving the current user from a session id.
type AuthService interface {
	Login(ctx context.Context, username, password string, meta domain.ClientMeta) (*domain.User, *domain.Session, error)
	RegisterIntern(ctx context.Context, in RegisterUserInput, meta domain.ClientMeta) (*domain.User, *domain.Session, error)
	RegisterCompany(ctx context.Context, user RegisterUserInput, company RegisterCompanyInput, meta domain.ClientMeta) (*domain.User, *domain.Company, *domain.Session, error)
	Logout(ctx context.Context, sessionID string, meta domain.ClientMeta) error
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
	Authenticate(ctx context.Context, sessionID string) (*domain.Principal, error)
	UpdateProfile(ctx context.Context, principal domain.Principal, update domain.ProfileUpdate) (*domain.User, error)
}

// PasswordHasher produces and checks credential strings.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, credential string) bool
	VerifyDummy(password string) bool
}

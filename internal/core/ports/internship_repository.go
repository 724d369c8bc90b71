package ports

import (
	"context"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// ListInternshipsFilter carries all query parameters for listing internships.
type ListInternshipsFilter struct {
	CompanyID int64                 // 0 = any company
	Location  string                // optional: case-insensitive partial match
	Type      domain.InternshipType // optional
	Search    string                // optional: partial match on title or description
	Page      int                   // 1-based
	Limit     int                   // max rows per page (capped at 100 by service)
}

// InternshipRepository defines persistence operations for listings.
type InternshipRepository interface {
	Create(ctx context.Context, i *domain.Internship) error
	// FindByID returns domain.ErrInternshipNotFound when id is unknown or malformed.
	FindByID(ctx context.Context, id string) (*domain.Internship, error)
	// List returns a page of internships matching filter and the total count.
	List(ctx context.Context, filter ListInternshipsFilter) ([]*domain.Internship, int64, error)
}

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	// Create returns domain.ErrAlreadyApplied when the intern already applied.
	Create(ctx context.Context, a *domain.Application) error
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	ListByIntern(ctx context.Context, internID int64) ([]*domain.Application, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*domain.Application, error)
	// UpdateStatus moves an application from one status to another. It fails
	// with domain.ErrApplicationNotFound when the current status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) (*domain.Application, error)
}

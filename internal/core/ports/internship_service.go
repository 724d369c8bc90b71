package ports

import (
	"context"
	"time"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// CreateInternshipInput carries all data needed to post a listing.
type CreateInternshipInput struct {
	Title        string
	Description  string
	Location     string
	Type         domain.InternshipType
	Duration     string
	Stipend      string
	Requirements []string
	Deadline     *time.Time
}

// ListInternshipsInput carries all parameters for the list endpoint.
type ListInternshipsInput struct {
	CompanyID int64
	Location  string
	Type      domain.InternshipType
	Search    string
	Page      int
	Limit     int
}

// ListInternshipsResult is returned by ListInternships.
type ListInternshipsResult struct {
	Items      []*domain.Internship
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// InternshipService defines use-case operations for listings and applications.
type InternshipService interface {
	CreateInternship(ctx context.Context, principal domain.Principal, input CreateInternshipInput) (*domain.Internship, error)
	GetInternship(ctx context.Context, id string) (*domain.Internship, error)
	ListInternships(ctx context.Context, input ListInternshipsInput) (*ListInternshipsResult, error)

	Apply(ctx context.Context, principal domain.Principal, internshipID, coverLetter string) (*domain.Application, error)
	ListApplications(ctx context.Context, principal domain.Principal) ([]*domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, principal domain.Principal, id string, status domain.ApplicationStatus) (*domain.Application, error)
}

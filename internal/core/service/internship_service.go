package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 10000
)

type internshipService struct {
	internships  ports.InternshipRepository
	applications ports.ApplicationRepository
	companies    ports.CredentialStore
	log          zerolog.Logger
	now          func() time.Time
}

// NewInternshipService returns an InternshipService implementation. The
// credential store resolves the company behind a company principal.
func NewInternshipService(
	internships ports.InternshipRepository,
	applications ports.ApplicationRepository,
	companies ports.CredentialStore,
	log zerolog.Logger,
) ports.InternshipService {
	return &internshipService{
		internships:  internships,
		applications: applications,
		companies:    companies,
		log:          log,
		now:          time.Now,
	}
}

func (s *internshipService) CreateInternship(ctx context.Context, principal domain.Principal, in ports.CreateInternshipInput) (*domain.Internship, error) {
	company, err := s.companyOf(ctx, principal)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, domain.Validation("title and description are required")
	}
	if !in.Type.Valid() {
		return nil, domain.Validation("type must be one of remote, onsite, hybrid")
	}

	now := s.now().UTC()
	if in.Deadline != nil && !in.Deadline.After(now) {
		return nil, domain.Validation("deadline must be in the future")
	}

	internship := &domain.Internship{
		CompanyID:    company.ID,
		CompanyName:  company.Name,
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Type:         in.Type,
		Duration:     in.Duration,
		Stipend:      in.Stipend,
		Requirements: in.Requirements,
		Deadline:     in.Deadline,
		CreatedAt:    now,
	}
	if err := s.internships.Create(ctx, internship); err != nil {
		s.log.Error().Err(err).Int64("company_id", company.ID).Msg("failed to create internship")
		return nil, err
	}

	s.log.Info().Str("internship_id", internship.ID).Int64("company_id", company.ID).Msg("internship created")
	return internship, nil
}

func (s *internshipService) GetInternship(ctx context.Context, id string) (*domain.Internship, error) {
	return s.internships.FindByID(ctx, id)
}

// ListInternships applies defaults (page 1, limit 20) and caps limit at 100.
// Pages beyond maxPage are rejected.
func (s *internshipService) ListInternships(ctx context.Context, in ports.ListInternshipsInput) (*ports.ListInternshipsResult, error) {
	if in.Type != "" && !in.Type.Valid() {
		return nil, domain.Validation("type must be one of remote, onsite, hybrid")
	}

	if in.Page > maxPage {
		return nil, domain.Validation(fmt.Sprintf("page must be at most %d", maxPage))
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.internships.List(ctx, ports.ListInternshipsFilter{
		CompanyID: in.CompanyID,
		Location:  in.Location,
		Type:      in.Type,
		Search:    in.Search,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListInternshipsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *internshipService) Apply(ctx context.Context, principal domain.Principal, internshipID, coverLetter string) (*domain.Application, error) {
	if principal.Role != domain.RoleIntern {
		return nil, domain.ErrForbidden
	}

	internship, err := s.internships.FindByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if internship.ClosedAt(now) {
		return nil, domain.ErrDeadlinePassed
	}

	app := &domain.Application{
		InternshipID: internship.ID,
		InternID:     principal.UserID,
		CompanyID:    internship.CompanyID,
		CoverLetter:  coverLetter,
		Status:       domain.ApplicationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("application_id", app.ID).
		Str("internship_id", internship.ID).
		Int64("intern_id", principal.UserID).
		Msg("application submitted")
	return app, nil
}

// ListApplications returns the intern's own applications, or for a company
// the applications to its listings.
func (s *internshipService) ListApplications(ctx context.Context, principal domain.Principal) ([]*domain.Application, error) {
	switch principal.Role {
	case domain.RoleIntern:
		return s.applications.ListByIntern(ctx, principal.UserID)
	case domain.RoleCompany:
		company, err := s.companyOf(ctx, principal)
		if err != nil {
			return nil, err
		}
		return s.applications.ListByCompany(ctx, company.ID)
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *internshipService) UpdateApplicationStatus(ctx context.Context, principal domain.Principal, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	company, err := s.companyOf(ctx, principal)
	if err != nil {
		return nil, err
	}

	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.CompanyID != company.ID {
		return nil, domain.ErrForbidden
	}
	if !app.Status.CanTransitionTo(status) {
		return nil, domain.InvalidTransition(app.Status, status)
	}

	updated, err := s.applications.UpdateStatus(ctx, id, app.Status, status)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("application_id", id).
		Str("from", string(app.Status)).
		Str("to", string(status)).
		Msg("application status changed")
	return updated, nil
}

func (s *internshipService) companyOf(ctx context.Context, principal domain.Principal) (*domain.Company, error) {
	if principal.Role != domain.RoleCompany {
		return nil, domain.ErrForbidden
	}
	company, err := s.companies.FindCompanyByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return company, nil
}

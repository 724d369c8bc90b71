package handler

import (
	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerStudentRequest) ports.RegisterUserInput {
	return ports.RegisterUserInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Email:           req.Email,
		Name:            req.Name,
		Phone:           req.Phone,
		Location:        req.Location,
		Bio:             req.Bio,
		ProfilePicture:  req.ProfilePicture,
		CVURL:           req.CVURL,
	}
}

func toCompanyInput(req companyRequest) ports.RegisterCompanyInput {
	return ports.RegisterCompanyInput{
		Name:        req.Name,
		Industry:    req.Industry,
		Location:    req.Location,
		Website:     req.Website,
		Description: req.Description,
	}
}

func toProfileUpdate(req updateProfileRequest) domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Phone:          req.Phone,
		Location:       req.Location,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		CVURL:          req.CVURL,
	}
}

func toCreateInternshipInput(req createInternshipRequest) ports.CreateInternshipInput {
	return ports.CreateInternshipInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Type:         domain.InternshipType(req.Type),
		Duration:     req.Duration,
		Stipend:      req.Stipend,
		Requirements: req.Requirements,
		Deadline:     req.Deadline,
	}
}

func toListInternshipsInput(q listInternshipsQuery) ports.ListInternshipsInput {
	return ports.ListInternshipsInput{
		CompanyID: q.CompanyID,
		Location:  q.Location,
		Type:      domain.InternshipType(q.Type),
		Search:    q.Search,
		Page:      q.Page,
		Limit:     q.Limit,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		Phone:          u.Phone,
		Location:       u.Location,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CVURL:          u.CVURL,
		CreatedAt:      u.CreatedAt,
	}
}

func toCompanyResponse(c *domain.Company) companyResponse {
	return companyResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Industry:    c.Industry,
		Location:    c.Location,
		Website:     c.Website,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toInternshipResponse(i *domain.Internship) internshipResponse {
	reqs := i.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return internshipResponse{
		ID:           i.ID,
		CompanyID:    i.CompanyID,
		CompanyName:  i.CompanyName,
		Title:        i.Title,
		Description:  i.Description,
		Location:     i.Location,
		Type:         string(i.Type),
		Duration:     i.Duration,
		Stipend:      i.Stipend,
		Requirements: reqs,
		Deadline:     i.Deadline,
		CreatedAt:    i.CreatedAt,
	}
}

func toListInternshipsResponse(r *ports.ListInternshipsResult) listInternshipsResponse {
	data := make([]internshipResponse, 0, len(r.Items))
	for _, i := range r.Items {
		data = append(data, toInternshipResponse(i))
	}
	return listInternshipsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toApplicationResponse(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:           a.ID,
		InternshipID: a.InternshipID,
		InternID:     a.InternID,
		CompanyID:    a.CompanyID,
		CoverLetter:  a.CoverLetter,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toListApplicationsResponse(apps []*domain.Application) listApplicationsResponse {
	data := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		data = append(data, toApplicationResponse(a))
	}
	return listApplicationsResponse{Data: data}
}

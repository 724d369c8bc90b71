package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Request types ---

type registerStudentRequest struct {
	Username        string `json:"username"        validate:"max=64"`
	Password        string `json:"password"        validate:"max=256"`
	ConfirmPassword string `json:"confirmPassword" validate:"max=256"`
	Email           string `json:"email"           validate:"omitempty,email"`
	Name            string `json:"name"            validate:"max=128"`
	Phone           string `json:"phone"           validate:"max=32"`
	Location        string `json:"location"        validate:"max=128"`
	Bio             string `json:"bio"             validate:"max=2000"`
	ProfilePicture  string `json:"profilePicture"  validate:"omitempty,url"`
	CVURL           string `json:"cvUrl"           validate:"omitempty,url"`
}

type companyRequest struct {
	Name        string `json:"name"        validate:"max=128"`
	Industry    string `json:"industry"    validate:"max=128"`
	Location    string `json:"location"    validate:"max=128"`
	Website     string `json:"website"     validate:"omitempty,url"`
	Description string `json:"description" validate:"max=2000"`
}

type registerCompanyRequest struct {
	User    registerStudentRequest `json:"user"`
	Company companyRequest         `json:"company"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Phone          *string `json:"phone"          validate:"omitempty,max=32"`
	Location       *string `json:"location"       validate:"omitempty,max=128"`
	Bio            *string `json:"bio"            validate:"omitempty,max=2000"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
	CVURL          *string `json:"cvUrl"          validate:"omitempty,url"`
}

type createInternshipRequest struct {
	Title        string     `json:"title"        validate:"required,max=200"`
	Description  string     `json:"description"  validate:"required,max=10000"`
	Location     string     `json:"location"     validate:"max=128"`
	Type         string     `json:"type"         validate:"required,oneof=remote onsite hybrid"`
	Duration     string     `json:"duration"     validate:"max=64"`
	Stipend      string     `json:"stipend"      validate:"max=64"`
	Requirements []string   `json:"requirements" validate:"max=50,dive,max=500"`
	Deadline     *time.Time `json:"deadline"`
}

type listInternshipsQuery struct {
	Page      int    `query:"page"       validate:"min=0,max=10000"`
	Limit     int    `query:"limit"      validate:"min=0"`
	CompanyID int64  `query:"company_id" validate:"min=0"`
	Location  string `query:"location"`
	Type      string `query:"type"       validate:"omitempty,oneof=remote onsite hybrid"`
	Search    string `query:"search"`
}

type applyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type updateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
}

// --- Response types ---

// Response-only types owned by the transport layer, so the JSON contract is
// not coupled to the domain structs.

type userResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Phone          string    `json:"phone,omitempty"`
	Location       string    `json:"location,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CVURL          string    `json:"cvUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type companyResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type registerCompanyResponse struct {
	User    userResponse    `json:"user"`
	Company companyResponse `json:"company"`
}

type internshipResponse struct {
	ID           string     `json:"id"`
	CompanyID    int64      `json:"companyId"`
	CompanyName  string     `json:"companyName"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location,omitempty"`
	Type         string     `json:"type"`
	Duration     string     `json:"duration,omitempty"`
	Stipend      string     `json:"stipend,omitempty"`
	Requirements []string   `json:"requirements"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listInternshipsResponse struct {
	Data       []internshipResponse `json:"data"`
	Pagination paginationResponse   `json:"pagination"`
}

type applicationResponse struct {
	ID           string    `json:"id"`
	InternshipID string    `json:"internshipId"`
	InternID     int64     `json:"internId"`
	CompanyID    int64     `json:"companyId"`
	CoverLetter  string    `json:"coverLetter,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type listApplicationsResponse struct {
	Data []applicationResponse `json:"data"`
}

type statusResponse struct {
	Status string `json:"status"`
}

package domain

import "time"

// InternshipType is the work arrangement of a listing.
type InternshipType string

const (
	InternshipRemote InternshipType = "remote"
	InternshipOnsite InternshipType = "onsite"
	InternshipHybrid InternshipType = "hybrid"
)

// Valid reports whether t is a known arrangement.
func (t InternshipType) Valid() bool {
	switch t {
	case InternshipRemote, InternshipOnsite, InternshipHybrid:
		return true
	}
	return false
}

// Internship is a listing posted by a company.
type Internship struct {
	ID           string         `json:"id"`
	CompanyID    int64          `json:"companyId"`
	CompanyName  string         `json:"companyName"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Location     string         `json:"location"`
	Type         InternshipType `json:"type"`
	Duration     string         `json:"duration,omitempty"`
	Stipend      string         `json:"stipend,omitempty"`
	Requirements []string       `json:"requirements,omitempty"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ClosedAt reports whether the application window has ended at t.
func (i *Internship) ClosedAt(t time.Time) bool {
	return i.Deadline != nil && t.After(*i.Deadline)
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:  {ApplicationReviewed, ApplicationAccepted, ApplicationRejected},
	ApplicationReviewed: {ApplicationAccepted, ApplicationRejected},
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application is an intern's request to join an internship.
type Application struct {
	ID           string            `json:"id"`
	InternshipID string            `json:"internshipId"`
	InternID     int64             `json:"internId"`
	CompanyID    int64             `json:"companyId"`
	CoverLetter  string            `json:"coverLetter,omitempty"`
	Status       ApplicationStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

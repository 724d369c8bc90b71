package domain

import "time"

// Role tells interns and companies apart.
type Role string

const (
	RoleIntern  Role = "intern"
	RoleCompany Role = "company"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleIntern || r == RoleCompany
}

// User models an authenticated actor in the system. Password holds the
// credential string and is never serialized.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	Phone          string    `json:"phone,omitempty"`
	Location       string    `json:"location,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CVURL          string    `json:"cvUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Company is the organisation profile owned by a company user.
type Company struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProfileUpdate carries the user fields that may change after registration.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Phone          *string
	Location       *string
	Bio            *string
	ProfilePicture *string
	CVURL          *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Phone == nil && p.Location == nil && p.Bio == nil && p.ProfilePicture == nil && p.CVURL == nil
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.CVURL != nil {
		u.CVURL = *p.CVURL
	}
}

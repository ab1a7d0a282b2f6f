package models

import "time"

type User struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid,omitempty"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsVerified  bool       `json:"is_verified"`
	IsPartner   bool       `json:"is_partner"`
	DateJoined  *time.Time `json:"date_joined,omitempty"`
	LastLoginAt *time.Time `json:"last_login,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	case u.Email != "":
		return u.Email
	default:
		return u.Phone
	}
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UserSummary is the compact user shape embedded in transfers and search results.
type UserSummary struct {
	UID      string `json:"uid"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

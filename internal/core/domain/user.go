package domain

import "time"

type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Password       string         `json:"-"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Phone          string         `json:"phone,omitempty"`
	DateOfBirth    *time.Time     `json:"date_of_birth,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	Address        string         `json:"address,omitempty"`
	City           string         `json:"city,omitempty"`
	State          string         `json:"state,omitempty"`
	ZipCode        string         `json:"zip_code,omitempty"`
	Country        string         `json:"country,omitempty"`
	ProfilePicture string         `json:"profile_picture,omitempty"`
	IsVerified     bool           `json:"is_verified"`
	IsActive       bool           `json:"is_active"`
	LastLoginAt    *time.Time     `json:"last_login_at,omitempty"`
	Preferences    map[string]any `json:"preferences"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// UserProfileUpdate lists the fields a user may change through the
// profile endpoint. Email, password and the verified/active flags are
// deliberately absent.
type UserProfileUpdate struct {
	FirstName      *string    `json:"first_name"`
	LastName       *string    `json:"last_name"`
	Phone          *string    `json:"phone"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	City           *string    `json:"city"`
	State          *string    `json:"state"`
	ZipCode        *string    `json:"zip_code"`
	Country        *string    `json:"country"`
	ProfilePicture *string    `json:"profile_picture"`
}

// UserStats summarizes an account for the profile dashboard.
type UserStats struct {
	AccountAgeDays  int        `json:"account_age_days"`
	JoinDate        time.Time  `json:"join_date"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	IsVerified      bool       `json:"is_verified"`
	ProfileComplete int        `json:"profile_complete"`
}

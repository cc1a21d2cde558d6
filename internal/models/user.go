package models

import (
	"strings"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// UniYear is the cohort attribute used for batch statistics.
type UniYear string

const (
	UniYearFirst  UniYear = "FIRST_YEAR"
	UniYearSecond UniYear = "SECOND_YEAR"
	UniYearThird  UniYear = "THIRD_YEAR"
	UniYearFourth UniYear = "FOURTH_YEAR"
)

// Valid reports whether the year is one of the known cohorts.
func (y UniYear) Valid() bool {
	switch y {
	case UniYearFirst, UniYearSecond, UniYearThird, UniYearFourth:
		return true
	}
	return false
}

// Department of study.
type Department string

const (
	DepartmentICT Department = "ICT"
	DepartmentET  Department = "ET"
	DepartmentBST Department = "BST"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserDetails holds profile data, including the cohort (uni year) of a student.
type UserDetails struct {
	ID          string      `db:"id" json:"id"`
	UserID      string      `db:"user_id" json:"user_id"`
	FullName    string      `db:"full_name" json:"full_name"`
	PhoneNumber *string     `db:"phone_number" json:"phone_number,omitempty"`
	RegNumber   *string     `db:"reg_number" json:"reg_number,omitempty"`
	Department  *Department `db:"department" json:"department,omitempty"`
	UniYear     *UniYear    `db:"uni_year" json:"uni_year,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// UserProfile combines a user with its optional details row.
type UserProfile struct {
	User    User         `json:"user"`
	Details *UserDetails `json:"details,omitempty"`
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role      *UserRole
	UniYear   *UniYear
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ParseUniYear resolves a cohort identifier case-insensitively.
func ParseUniYear(raw string) (UniYear, bool) {
	year := UniYear(strings.ToUpper(strings.TrimSpace(raw)))
	return year, year.Valid()
}

package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID            int64        `json:"id" db:"id" example:"1"`                                                    // Unique identifier for the user
	Email         string       `json:"email" db:"email" example:"user@example.com"`                               // User's email address
	Password      string       `json:"-" db:"password"`                                                           // User's hashed password (excluded from JSON)
	FirstName     string       `json:"firstName" db:"first_name" example:"Jane"`                                  // User's first name
	LastName      string       `json:"lastName" db:"last_name" example:"Doe"`                                     // User's last name
	RoleType      RoleType     `json:"roleType" db:"role_type" example:"student"`                                 // User's role (student, teacher or admin)
	Provider      AuthProvider `json:"provider" db:"provider" example:"local"`                                    // Auth provider the account came from
	IsActive      bool         `json:"isActive" db:"is_active" example:"true"`                                    // Whether the user account is active
	EmailVerified bool         `json:"emailVerified" db:"email_verified" example:"true"`                          // Whether the email address has been verified
	LastLoginAt   *time.Time   `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2025-04-20T18:00:00Z"`   // Timestamp of the last login (nullable)
	LastStudyDate *time.Time   `json:"lastStudyDate,omitempty" db:"last_study_date" example:"2025-04-21T09:00:00Z"` // Last recorded study activity (nullable)
	CreatedAt     time.Time    `json:"createdAt" db:"created_at" example:"2025-01-01T10:00:00Z"`                  // Timestamp when the user was created
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at" example:"2025-01-02T15:30:00Z"`                  // Timestamp when the user was last updated
}

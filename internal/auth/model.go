package auth

import "time"

// Platform roles. "admin" short-circuits every event-level access check,
// "host" can create events, "member" can only be invited as co-host/viewer.
const (
	RoleAdmin  = "admin"
	RoleHost   = "host"
	RoleMember = "member"
)

type UserRole struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RoleName string `gorm:"size:50;not null;uniqueIndex" json:"role_name"`
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         UserRole  `gorm:"foreignKey:RoleID" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserRole string

const (
	RoleRestaurant UserRole = "restaurant"
	RoleInfluencer UserRole = "influencer"
	RoleAdmin      UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleRestaurant, RoleInfluencer, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	bun.BaseModel `bun:"table:user"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name" json:"name"`
	Email          string    `bun:"email" json:"email"`
	PasswordHash   string    `bun:"password_hash" json:"-"`
	Role           UserRole  `bun:"role" json:"role"`
	ProfilePicture *string   `bun:"profile_picture" json:"profile_picture"`
	CreatedAt      time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at" json:"updated_at"`
}

// UserFromAuth is the identity carried by a verified session token.
// Only used by the authentication middleware.
type UserFromAuth struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

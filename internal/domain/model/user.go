package model

import (
	"time"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Password     string    `db:"password" json:"-"` // bcrypt hash, never serialized
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	Bio          *string   `db:"bio" json:"bio"`
	ProfileImage *string   `db:"profile_image" json:"profileImage"`
	IsAdmin      bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// UserUpdate holds the profile fields a user may change. Nil fields are left untouched.
type UserUpdate struct {
	FullName     *string
	Bio          *string
	ProfileImage *string
}

// Apply merges the non-nil fields of upd into u.
func (upd UserUpdate) Apply(u *User) {
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = upd.ProfileImage
	}
}

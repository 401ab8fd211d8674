// Package models defines the persistent entities of the account service.
package models

import "time"

// User is the credential record for one account. PasswordHash always holds
// the bcrypt hash of the current password, never the plaintext. RefreshToken
// holds the single most-recently-issued refresh token for this user, or ""
// when none is active (one session at a time).
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicProfile is the client-facing view of a User with the sensitive
// fields (password hash, refresh token) removed.
type PublicProfile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Public returns the user's public profile view.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

package models

import (
	"time"
)

// LinkedInAccount is one linked identity. A user may hold several; every post
// names the identity it publishes through by URN.
type LinkedInAccount struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	URN            string    `db:"urn" json:"urn"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	ProfilePicture string    `db:"profile_picture_url" json:"profile_picture"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	AccountStatus  string    `db:"account_status" json:"account_status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

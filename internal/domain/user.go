package domain

import "time"

// User is the single credential record persisted per end user.
// Email is the unique lookup key (via the email-index GSI); AccessToken is
// the aggregator's long-lived token and stays nil until a successful
// public-token exchange.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	FirstName    string    `json:"first_name" dynamodbav:"first_name"`
	LastName     string    `json:"last_name" dynamodbav:"last_name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	AccessToken  *string   `json:"-" dynamodbav:"access_token"`
	ItemID       *string   `json:"-" dynamodbav:"item_id"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Linked reports whether the user has completed a public-token exchange.
func (u *User) Linked() bool {
	return u.AccessToken != nil && *u.AccessToken != ""
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ExchangePublicTokenRequest struct {
	PublicToken string `json:"public_token" validate:"required"`
}

// Profile is the non-secret projection of a User returned by GET /user.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

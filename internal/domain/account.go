package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountID = uuid.UUID

// Role is the closed set of privilege levels an account can hold.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Account is the persistent credential record. Verification and reset token
// pairs are either both set or both nil; a consumed token is cleared together
// with its expiry.
type Account struct {
	Id              AccountID
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	Role            Role
	IsEmailVerified bool

	VerificationToken       *string
	VerificationTokenExpiry *time.Time

	ResetPasswordToken  *string
	ResetPasswordExpiry *time.Time

	CreatedAt time.Time
}

// Summary is the public-safe projection of an account. It never carries
// credential material.
type Summary struct {
	Id        AccountID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

func (a Account) Summary() Summary {
	return Summary{Id: a.Id, Email: a.Email, FirstName: a.FirstName, LastName: a.LastName}
}

// Stripped returns a copy of the account with credential and token fields
// removed, for callers that need the record but must not see secrets.
func (a Account) Stripped() Account {
	a.PasswordHash = ""
	a.VerificationToken = nil
	a.VerificationTokenExpiry = nil
	a.ResetPasswordToken = nil
	a.ResetPasswordExpiry = nil
	return a
}

// SessionClaims is what the session signer binds into a bearer token and what
// the middleware resolves back out of one.
type SessionClaims struct {
	AccountId AccountID
	Email     string
}

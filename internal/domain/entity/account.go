// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity of the system, representing a single person who
// can sign in. An account either carries its own password hash (credential
// sign-in) or is provisioned by an external identity provider and has none.
type Account struct {
	ID            uuid.UUID    // The unique identifier for the account.
	Email         string       // The account's email, used as the login identifier. Stored lowercased.
	Name          string       // The account holder's display name.
	PasswordHash  string       // The encoded password hash. Empty for provider-provisioned accounts.
	EmailVerified bool         // Whether the email address has been confirmed.
	Provider      ProviderType // The provider this account was last established through.
	CreatedAt     time.Time    // Timestamp of when this account was created.
	UpdatedAt     time.Time    // Timestamp of the last modification to this account's data.
}

// HasUsableHash reports whether the account can be authenticated with a
// password. Provider-provisioned accounts never can, even if a stray hash
// value is present.
func (a *Account) HasUsableHash() bool {
	return a.Provider == ProviderTypeEmail && a.PasswordHash != ""
}

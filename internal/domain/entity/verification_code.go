// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode represents a single outstanding email verification code.
// At most one code is live per account; issuing a new one replaces it.
type VerificationCode struct {
	ID        uuid.UUID // The unique ID for this specific code record.
	AccountID uuid.UUID // Links this code to the Account it verifies.
	Code      string    // The 8-digit numeric code mailed to the account.
	ExpiresAt time.Time // The exact time when this code stops being accepted.
	CreatedAt time.Time // Timestamp of when this code was issued.
}

// Expired reports whether the code is no longer acceptable at the given time.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

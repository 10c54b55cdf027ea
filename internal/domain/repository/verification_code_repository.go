package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCodeNotFound is returned when no live verification code exists.
var ErrCodeNotFound = errors.New("verification code not found")

// VerificationCodeRepository defines the operations for verification code
// persistence. DeleteAllForAccount and Create are composed inside one
// transaction by the caller, so replacing a code is atomic.
type VerificationCodeRepository interface {
	// Create persists a new verification code.
	Create(ctx context.Context, code *entity.VerificationCode) error

	// DeleteAllForAccount removes every code belonging to the account,
	// superseding any previously issued code.
	DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) error

	// FindByAccount retrieves the live code for the account.
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*entity.VerificationCode, error)

	// Delete removes a single code record, consuming it.
	Delete(ctx context.Context, id uuid.UUID) error
}

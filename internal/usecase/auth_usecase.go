// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"passport/internal/domain/entity"
)

// Resolve request types, carried in the request's "type" discriminator.
const (
	ResolveTypeLogin  = "login"
	ResolveTypeSignup = "signup"
)

// --- Input DTOs ---

// ResolveInput defines a combined login-or-signup request. Type selects the
// branch; Name and AcceptTerms are optional and only meaningful for signup.
type ResolveInput struct {
	Type        string `json:"type" validate:"required,oneof=login signup"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	Name        string `json:"name" validate:"omitempty,max=100"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// GoogleCallbackInput defines the data required for Google Sign-In.
type GoogleCallbackInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// VerifyEmailInput defines the data required to confirm an email address.
type VerifyEmailInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=8,numeric"`
}

// --- Output DTOs ---

// ResolveOutput returns the authenticated account and its access token.
// ExpiresIn is the token lifetime in seconds.
type ResolveOutput struct {
	Account     *entity.Account
	AccessToken string
	ExpiresIn   int64
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Resolve dispatches a combined login/signup request on its Type field.
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)

	// GoogleCallback logs in or registers an account via a Google ID token.
	GoogleCallback(ctx context.Context, input *GoogleCallbackInput) (*ResolveOutput, error)
}

// VerificationUsecase defines the interface for email verification operations.
type VerificationUsecase interface {
	// IssueVerificationCode mints a fresh code for the account, replacing any
	// previous one, and mails it to the account's address.
	IssueVerificationCode(ctx context.Context, email string) error

	// VerifyEmail consumes a code and marks the account's email verified.
	VerifyEmail(ctx context.Context, input *VerifyEmailInput) error
}

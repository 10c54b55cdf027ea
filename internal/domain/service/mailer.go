package service

import "context"

// VerificationMail carries the template data for a verification-code email.
type VerificationMail struct {
	Code          string // 8 ASCII digits
	ExpiresInMins int    // advisory, rendered into the body
}

// Mailer defines the interface for outbound email delivery. Delivery is
// best-effort: a failure must not roll back whatever persistence triggered it.
type Mailer interface {
	// SendVerificationCode sends the verification code to the address.
	SendVerificationCode(ctx context.Context, toAddress string, mail *VerificationMail) error
}

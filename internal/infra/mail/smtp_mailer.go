// Package mail implements outbound mail delivery for verification codes.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
)

// smtpMailer is a concrete implementation of the Mailer interface using
// plain SMTP with STARTTLS-capable servers.
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	appName  string
	logger   *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		return nil, errors.New("smtp configuration must be provided")
	}

	return &smtpMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
		appName:  cfg.SMTP.AppName,
		logger:   logger,
	}, nil
}

// SendVerificationCode sends the verification code to the account's address.
func (m *smtpMailer) SendVerificationCode(ctx context.Context, toAddress string, mail *service.VerificationMail) error {
	subject := fmt.Sprintf("Subject: %s - Verify Your Email Address\n", m.appName)
	mime := "MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\n\n"

	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Thank you for signing up for %s! To complete your registration, please use the verification code below:\n\n"+
			"Verification Code: %s\n\n"+
			"This code will expire in %d minutes. If you did not request this email, please ignore it.\n\n"+
			"Best regards,\n"+
			"The %s Team",
		m.appName, mail.Code, mail.ExpiresInMins, m.appName)

	message := []byte(subject + mime + body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{toAddress}, message); err != nil {
		return errors.Wrap(err, "failed to send verification mail")
	}

	m.logger.InfoContext(ctx, "verification mail sent", slog.String("to", toAddress))

	return nil
}

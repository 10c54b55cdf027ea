package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultCodeTTL = 20 * time.Minute

	// codeSpace is 10^8; codes are zero-padded to 8 digits so every value in
	// [0, codeSpace) is equally likely.
	codeSpace = 100000000
)

// verificationService implements the VerificationUsecase interface.
type verificationService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	mailer      service.Mailer
	codeTTL     time.Duration
	logger      *slog.Logger
}

// VerificationServiceParams holds dependencies for verificationService, injected by Fx.
type VerificationServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Mailer      service.Mailer
	Config      *config.Config
	Logger      *slog.Logger
}

// NewVerificationService is the constructor for verificationService.
func NewVerificationService(params VerificationServiceParams) usecase.VerificationUsecase {
	codeTTL := defaultCodeTTL
	if params.Config != nil && params.Config.Verification != nil && params.Config.Verification.CodeTTL > 0 {
		codeTTL = params.Config.Verification.CodeTTL
	}

	return &verificationService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		mailer:      params.Mailer,
		codeTTL:     codeTTL,
		logger:      params.Logger,
	}
}

func (srv *verificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// IssueVerificationCode mints a fresh code for the account, atomically
// replacing any previous one, then mails it. Mail delivery failure does not
// fail the issuance; the code row stays valid and the account can retry.
func (srv *verificationService) IssueVerificationCode(ctx context.Context, email string) error {
	account, err := srv.accountRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// The account may have been deleted between signup and this task
			// running. Nothing to do.
			srv.log(ctx).Warn("Verification requested for unknown account", slog.String("email", email))

			return nil
		}

		return errors.Wrap(err, "failed to find account for verification")
	}

	if account.EmailVerified {
		srv.log(ctx).Debug("Account already verified, skipping issuance", slog.Any("accountID", account.ID))

		return nil
	}

	code, err := generateNumericCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate verification code")
	}

	newCode := &entity.VerificationCode{
		AccountID: account.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(srv.codeTTL),
	}

	// Delete-then-insert in one transaction: at most one live code per
	// account, and no window where none exists if the insert fails.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		codeRepo := repoFactory.VerificationCodeRepo()

		if err := codeRepo.DeleteAllForAccount(ctx, account.ID); err != nil {
			return errors.Wrap(err, "failed to delete previous verification codes")
		}

		return codeRepo.Create(ctx, newCode)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute verification code transaction", slog.Any("error", err))

		return errors.Wrap(err, "failed to execute verification code transaction")
	}

	mail := &service.VerificationMail{
		Code:          code,
		ExpiresInMins: int(srv.codeTTL / time.Minute),
	}
	if err := srv.mailer.SendVerificationCode(ctx, account.Email, mail); err != nil {
		srv.log(ctx).Error("Failed to send verification mail",
			slog.Any("accountID", account.ID),
			slog.Any("error", err))
	}

	srv.log(ctx).Info("Verification code issued", slog.Any("accountID", account.ID))

	return nil
}

// VerifyEmail consumes a code and marks the account's email verified.
func (srv *verificationService) VerifyEmail(ctx context.Context, input *usecase.VerifyEmailInput) error {
	account, err := srv.accountRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrVerificationCodeInvalid.WrapMessage("no account for email")
		}

		return errors.Wrap(err, "failed to find account for verification")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		codeRepo := repoFactory.VerificationCodeRepo()

		stored, err := codeRepo.FindByAccount(ctx, account.ID)
		if err != nil {
			if errors.Is(err, repository.ErrCodeNotFound) {
				return domainerrors.ErrVerificationCodeInvalid.WrapMessage("no live code for account")
			}

			return errors.Wrap(err, "failed to load verification code")
		}

		if stored.Expired(time.Now()) || stored.Code != input.Code {
			return domainerrors.ErrVerificationCodeInvalid.WrapMessage("code mismatch or expired")
		}

		account.EmailVerified = true
		if err := repoFactory.AccountRepo().Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to mark email verified")
		}

		// A code is single-use.
		return codeRepo.Delete(ctx, stored.ID)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrVerificationCodeInvalid) {
			srv.log(ctx).Warn("Email verification rejected", slog.Any("accountID", account.ID))

			return err
		}
		srv.log(ctx).Error("Failed to execute email verification transaction", slog.Any("error", err))

		return errors.Wrap(err, "failed to execute email verification transaction")
	}

	srv.log(ctx).Info("Email verified", slog.Any("accountID", account.ID))

	return nil
}

// generateNumericCode draws an 8-digit code uniformly from [0, 10^8).
func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", errors.WithStack(err)
	}

	return fmt.Sprintf("%08d", n.Int64()), nil
}

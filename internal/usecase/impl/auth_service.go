// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyStoredHash is compared against when no account (or no usable hash)
// exists for a login attempt, so both branches pay the same key-derivation
// cost and an attacker cannot time-probe which emails are registered.
const dummyStoredHash = "00000000000000000000000000000000." +
	"0000000000000000000000000000000000000000000000000000000000000000"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	accountRepo       repository.AccountRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	publisher         service.EventPublisher
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	AccountRepo       repository.AccountRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Publisher         service.EventPublisher
	Logger            *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:         params.TxManager,
		accountRepo:       params.AccountRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		publisher:         params.Publisher,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve dispatches a combined login/signup request on its Type field.
func (srv *authService) Resolve(ctx context.Context, input *usecase.ResolveInput) (*usecase.ResolveOutput, error) {
	input.Email = normalizeEmail(input.Email)

	switch input.Type {
	case usecase.ResolveTypeLogin:
		return srv.login(ctx, input)
	case usecase.ResolveTypeSignup:
		return srv.signup(ctx, input)
	default:
		return nil, domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: "type", Reason: "must be login or signup"},
		})
	}
}

// login authenticates an account against its stored credential hash.
// Every failure path returns the same ErrInvalidCredentials so a caller
// cannot distinguish an unknown email from a wrong password.
func (srv *authService) login(ctx context.Context, input *usecase.ResolveInput) (*usecase.ResolveOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Error("Failed to load account for login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	storedHash := dummyStoredHash
	if account != nil && account.HasUsableHash() {
		storedHash = account.PasswordHash
	}

	match, compareErr := srv.hasher.Compare(input.Password, storedHash)
	if compareErr != nil {
		// A malformed stored hash is a data problem worth logging, but the
		// caller still only sees the generic credential error.
		srv.log(ctx).Error("Credential comparison failed", slog.Any("error", compareErr))
	}

	if account == nil || !account.HasUsableHash() || !match {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(account.ID, account.Provider.String())
	if err != nil {
		srv.log(ctx).Error("Failed to generate access token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.ResolveOutput{
		Account:     account,
		AccessToken: accessToken,
		ExpiresIn:   int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}

// signup creates a new credential account and detaches verification issuance.
func (srv *authService) signup(ctx context.Context, input *usecase.ResolveInput) (*usecase.ResolveOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	newAccount := &entity.Account{
		Email:         input.Email,
		Name:          input.Name,
		PasswordHash:  hashedPassword,
		EmailVerified: false,
		Provider:      entity.ProviderTypeEmail,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.AccountRepo().Create(ctx, newAccount)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountAlreadyExists) {
			srv.log(ctx).Warn("Signup rejected, email already registered", slog.String("email", input.Email))

			return nil, err
		}
		srv.log(ctx).Error("Failed to execute signup transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	// Verification issuance is detached: the signup response never waits on
	// it and never fails because of it.
	srv.publishVerificationEvent(ctx, newAccount)

	accessToken, err := srv.tokenService.GenerateAccessToken(newAccount.ID, newAccount.Provider.String())
	if err != nil {
		srv.log(ctx).Error("Failed to generate access token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("accountID", newAccount.ID))

	return &usecase.ResolveOutput{
		Account:     newAccount,
		AccessToken: accessToken,
		ExpiresIn:   int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}

// publishVerificationEvent hands the verification-issuance task to the event
// publisher. Failures are logged and swallowed.
func (srv *authService) publishVerificationEvent(ctx context.Context, account *entity.Account) {
	event := &service.VerificationEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		AccountID: account.ID.String(),
		Email:     account.Email,
	}

	if err := srv.publisher.PublishVerificationEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish verification event",
			slog.Any("accountID", account.ID),
			slog.Any("error", err))
	}
}

// GoogleCallback handles login or registration via Google Sign-In.
func (srv *authService) GoogleCallback(ctx context.Context, input *usecase.GoogleCallbackInput) (*usecase.ResolveOutput, error) {
	srv.log(ctx).Info("Handling Google callback")

	// 1. Verify the ID token claims.
	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, domainerrors.ErrOAuthTokenInvalid.WrapMessage("failed to verify Google ID token")
	}

	// 2. Upsert the account keyed on email. Google vouches for the address,
	// so the account lands verified and carries no password hash.
	account := &entity.Account{
		Email:         normalizeEmail(oauthUser.Email),
		Name:          oauthUser.Name,
		EmailVerified: true,
		Provider:      srv.googleAuthService.GetProvider(),
	}

	var savedAccount *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var upsertErr error
		savedAccount, upsertErr = repoFactory.AccountRepo().UpsertByEmail(ctx, account)

		return upsertErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute Google callback transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute Google callback transaction")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(savedAccount.ID, entity.ProviderTypeGoogle.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Google callback completed", slog.Any("accountID", savedAccount.ID))

	return &usecase.ResolveOutput{
		Account:     savedAccount,
		AccessToken: accessToken,
		ExpiresIn:   int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}

// normalizeEmail canonicalizes an address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package impl

import (
	"context"
	"testing"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	mockRepo "passport/internal/mocks/repository"
	mockSvc "passport/internal/mocks/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service           usecase.AuthUsecase
	txManager         *mockRepo.MockTransactionManager
	accountRepo       *mockRepo.MockAccountRepository
	hasher            *mockSvc.MockPasswordHasher
	tokenService      *mockSvc.MockTokenService
	googleAuthService *mockSvc.MockOAuthAuthService
	publisher         *mockSvc.MockEventPublisher
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	googleAuthService := mockSvc.NewMockOAuthAuthService(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewAuthService(AuthServiceParams{
		TxManager:         txManager,
		AccountRepo:       accountRepo,
		Hasher:            hasher,
		TokenService:      tokenService,
		GoogleAuthService: googleAuthService,
		Publisher:         publisher,
		Logger:            newDiscardLogger(),
	})

	return authServiceFixtures{
		service:           svc,
		txManager:         txManager,
		accountRepo:       accountRepo,
		hasher:            hasher,
		tokenService:      tokenService,
		googleAuthService: googleAuthService,
		publisher:         publisher,
	}
}

func TestAuthService_Resolve_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "salt.hash",
		Provider:     entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)
	fx.hasher.EXPECT().Compare("Password123!", "salt.hash").Return(true, nil)
	fx.tokenService.EXPECT().GenerateAccessToken(account.ID, "email").Return("access_token", nil)
	fx.tokenService.EXPECT().GetAccessTokenDuration().Return(15 * time.Minute)

	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:     usecase.ResolveTypeLogin,
		Email:    "test@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, int64(900), output.ExpiresIn)
	assert.Equal(t, account.ID, output.Account.ID)
}

func TestAuthService_Resolve_Login_NormalizesEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "salt.hash",
		Provider:     entity.ProviderTypeEmail,
	}

	// Lookup must use the canonical lowercase address.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "user@example.com").Return(account, nil)
	fx.hasher.EXPECT().Compare("Password123!", "salt.hash").Return(true, nil)
	fx.tokenService.EXPECT().GenerateAccessToken(account.ID, "email").Return("access_token", nil)
	fx.tokenService.EXPECT().GetAccessTokenDuration().Return(15 * time.Minute)

	_, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:     usecase.ResolveTypeLogin,
		Email:    "  User@Example.COM ",
		Password: "Password123!",
	})

	require.NoError(t, err)
}

func TestAuthService_Resolve_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)
	// The dummy hash is still compared so lookup misses cost the same as hits.
	fx.hasher.EXPECT().Compare("Password123!", dummyStoredHash).Return(false, nil)

	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:     usecase.ResolveTypeLogin,
		Email:    "ghost@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Resolve_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "salt.hash",
		Provider:     entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)
	fx.hasher.EXPECT().Compare("WrongPassword!", "salt.hash").Return(false, nil)

	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:     usecase.ResolveTypeLogin,
		Email:    "test@example.com",
		Password: "WrongPassword!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Resolve_Login_ProviderAccountHasNoCredentials(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:            uuid.New(),
		Email:         "google-user@example.com",
		EmailVerified: true,
		Provider:      entity.ProviderTypeGoogle,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "google-user@example.com").Return(account, nil)
	fx.hasher.EXPECT().Compare("Password123!", dummyStoredHash).Return(false, nil)

	// A provider-provisioned account must fail credential login with the
	// same generic error as an unknown email.
	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:     usecase.ResolveTypeLogin,
		Email:    "google-user@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Resolve_Signup_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	newID := uuid.New()

	fx.hasher.EXPECT().Hash("Password123!").Return("salt.hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, account *entity.Account) {
					account.ID = newID
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.publisher.EXPECT().
		PublishVerificationEvent(ctx, mock.AnythingOfType("*service.VerificationEvent")).
		Return(nil)

	fx.tokenService.EXPECT().GenerateAccessToken(newID, "email").Return("access_token", nil)
	fx.tokenService.EXPECT().GetAccessTokenDuration().Return(15 * time.Minute)

	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:        usecase.ResolveTypeSignup,
		Email:       "new@example.com",
		Password:    "Password123!",
		Name:        "New User",
		AcceptTerms: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, int64(900), output.ExpiresIn)
	assert.Equal(t, "new@example.com", output.Account.Email)
	assert.Equal(t, "salt.hash", output.Account.PasswordHash)
	assert.Equal(t, entity.ProviderTypeEmail, output.Account.Provider)
	assert.False(t, output.Account.EmailVerified)
}

func TestAuthService_Resolve_Signup_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.hasher.EXPECT().Hash("Password123!").Return("salt.hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Account")).
				Return(domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists"))

			return fn(mockFactory)
		})

	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:        usecase.ResolveTypeSignup,
		Email:       "taken@example.com",
		Password:    "Password123!",
		Name:        "New User",
		AcceptTerms: true,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
}

func TestAuthService_Resolve_Signup_PublishFailureIsNonFatal(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	newID := uuid.New()

	fx.hasher.EXPECT().Hash("Password123!").Return("salt.hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, account *entity.Account) {
					account.ID = newID
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.publisher.EXPECT().
		PublishVerificationEvent(ctx, mock.AnythingOfType("*service.VerificationEvent")).
		Return(errors.New("broker unavailable"))

	fx.tokenService.EXPECT().GenerateAccessToken(newID, "email").Return("access_token", nil)
	fx.tokenService.EXPECT().GetAccessTokenDuration().Return(15 * time.Minute)

	output, err := fx.service.Resolve(ctx, &usecase.ResolveInput{
		Type:        usecase.ResolveTypeSignup,
		Email:       "new@example.com",
		Password:    "Password123!",
		Name:        "New User",
		AcceptTerms: true,
	})

	require.NoError(t, err)
	assert.NotNil(t, output)
}

func TestAuthService_Resolve_UnknownType(t *testing.T) {
	fx := createTestAuthService(t)

	output, err := fx.service.Resolve(context.Background(), &usecase.ResolveInput{
		Type:     "reset",
		Email:    "test@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAuthService_GoogleCallback_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	savedID := uuid.New()

	fx.googleAuthService.EXPECT().
		VerifyIDToken(ctx, "valid_id_token").
		Return(&service.OAuthUser{
			ID:            "google_user_123",
			Email:         "GUser@Example.com",
			Name:          "Google User",
			Provider:      entity.ProviderTypeGoogle,
			EmailVerified: true,
		}, nil)
	fx.googleAuthService.EXPECT().GetProvider().Return(entity.ProviderTypeGoogle)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().
				UpsertByEmail(ctx, mock.AnythingOfType("*entity.Account")).
				RunAndReturn(func(ctx context.Context, account *entity.Account) (*entity.Account, error) {
					// External-identity accounts land verified, lowercased,
					// and without a password hash.
					assert.Equal(t, "guser@example.com", account.Email)
					assert.True(t, account.EmailVerified)
					assert.Empty(t, account.PasswordHash)
					assert.Equal(t, entity.ProviderTypeGoogle, account.Provider)

					saved := *account
					saved.ID = savedID

					return &saved, nil
				})

			return fn(mockFactory)
		})

	fx.tokenService.EXPECT().GenerateAccessToken(savedID, "google").Return("access_token", nil)
	fx.tokenService.EXPECT().GetAccessTokenDuration().Return(15 * time.Minute)

	output, err := fx.service.GoogleCallback(ctx, &usecase.GoogleCallbackInput{IDToken: "valid_id_token"})

	require.NoError(t, err)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, int64(900), output.ExpiresIn)
	assert.Equal(t, savedID, output.Account.ID)
}

func TestAuthService_GoogleCallback_InvalidToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.googleAuthService.EXPECT().
		VerifyIDToken(ctx, "bad_token").
		Return(nil, errors.New("token verification failed"))

	output, err := fx.service.GoogleCallback(ctx, &usecase.GoogleCallbackInput{IDToken: "bad_token"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrOAuthTokenInvalid))
}

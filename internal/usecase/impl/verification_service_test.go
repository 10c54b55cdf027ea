package impl

import (
	"context"
	"regexp"
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

// verificationServiceFixtures holds all test dependencies for verification service tests.
type verificationServiceFixtures struct {
	service     usecase.VerificationUsecase
	txManager   *mockRepo.MockTransactionManager
	accountRepo *mockRepo.MockAccountRepository
	mailer      *mockSvc.MockMailer
}

func createTestVerificationService(t *testing.T) verificationServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	mailer := mockSvc.NewMockMailer(t)

	svc := NewVerificationService(VerificationServiceParams{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		Mailer:      mailer,
		Config:      newTestConfig(20 * time.Minute),
		Logger:      newDiscardLogger(),
	})

	return verificationServiceFixtures{
		service:     svc,
		txManager:   txManager,
		accountRepo: accountRepo,
		mailer:      mailer,
	}
}

func TestVerificationService_IssueVerificationCode_Success(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Provider: entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)

	var issuedCode string
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCodeRepo := mockRepo.NewMockVerificationCodeRepository(t)

			mockFactory.EXPECT().VerificationCodeRepo().Return(mockCodeRepo)

			// Old codes vanish in the same transaction as the new insert.
			mockCodeRepo.EXPECT().DeleteAllForAccount(ctx, account.ID).Return(nil)
			mockCodeRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.VerificationCode")).
				Run(func(ctx context.Context, code *entity.VerificationCode) {
					issuedCode = code.Code
					assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), code.Code)
					assert.Equal(t, account.ID, code.AccountID)
					assert.WithinDuration(t, time.Now().Add(20*time.Minute), code.ExpiresAt, 5*time.Second)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.mailer.EXPECT().
		SendVerificationCode(ctx, "test@example.com", mock.AnythingOfType("*service.VerificationMail")).
		RunAndReturn(func(ctx context.Context, toAddress string, mail *service.VerificationMail) error {
			assert.Equal(t, issuedCode, mail.Code)
			assert.Equal(t, 20, mail.ExpiresInMins)

			return nil
		})

	err := fx.service.IssueVerificationCode(ctx, "test@example.com")
	require.NoError(t, err)
}

func TestVerificationService_IssueVerificationCode_UnknownAccount(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)

	// The account may have been deleted since the task was enqueued.
	err := fx.service.IssueVerificationCode(ctx, "ghost@example.com")
	assert.NoError(t, err)
}

func TestVerificationService_IssueVerificationCode_AlreadyVerified(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:            uuid.New(),
		Email:         "done@example.com",
		EmailVerified: true,
		Provider:      entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "done@example.com").Return(account, nil)

	err := fx.service.IssueVerificationCode(ctx, "done@example.com")
	assert.NoError(t, err)
}

func TestVerificationService_IssueVerificationCode_MailFailureIsNonFatal(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Provider: entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCodeRepo := mockRepo.NewMockVerificationCodeRepository(t)

			mockFactory.EXPECT().VerificationCodeRepo().Return(mockCodeRepo)
			mockCodeRepo.EXPECT().DeleteAllForAccount(ctx, account.ID).Return(nil)
			mockCodeRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.VerificationCode")).Return(nil)

			return fn(mockFactory)
		})

	fx.mailer.EXPECT().
		SendVerificationCode(ctx, "test@example.com", mock.AnythingOfType("*service.VerificationMail")).
		Return(errors.New("smtp connection refused"))

	// The code row is committed; delivery can be retried later.
	err := fx.service.IssueVerificationCode(ctx, "test@example.com")
	assert.NoError(t, err)
}

func TestVerificationService_IssueVerificationCode_TransactionFailure(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Provider: entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(errors.New("deadlock detected"))

	err := fx.service.IssueVerificationCode(ctx, "test@example.com")
	assert.Error(t, err)
}

func TestVerificationService_VerifyEmail_Success(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Provider: entity.ProviderTypeEmail,
	}
	codeID := uuid.New()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCodeRepo := mockRepo.NewMockVerificationCodeRepository(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().VerificationCodeRepo().Return(mockCodeRepo)
			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockCodeRepo.EXPECT().
				FindByAccount(ctx, account.ID).
				Return(&entity.VerificationCode{
					ID:        codeID,
					AccountID: account.ID,
					Code:      "12345678",
					ExpiresAt: time.Now().Add(10 * time.Minute),
				}, nil)

			mockAccountRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, updated *entity.Account) {
					assert.True(t, updated.EmailVerified)
				}).
				Return(nil)

			mockCodeRepo.EXPECT().Delete(ctx, codeID).Return(nil)

			return fn(mockFactory)
		})

	err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{
		Email: "test@example.com",
		Code:  "12345678",
	})
	require.NoError(t, err)
}

func TestVerificationService_VerifyEmail_WrongCode(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Provider: entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCodeRepo := mockRepo.NewMockVerificationCodeRepository(t)

			mockFactory.EXPECT().VerificationCodeRepo().Return(mockCodeRepo)
			mockCodeRepo.EXPECT().
				FindByAccount(ctx, account.ID).
				Return(&entity.VerificationCode{
					ID:        uuid.New(),
					AccountID: account.ID,
					Code:      "12345678",
					ExpiresAt: time.Now().Add(10 * time.Minute),
				}, nil)

			return fn(mockFactory)
		})

	err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{
		Email: "test@example.com",
		Code:  "87654321",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrVerificationCodeInvalid))
}

func TestVerificationService_VerifyEmail_ExpiredCode(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Provider: entity.ProviderTypeEmail,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCodeRepo := mockRepo.NewMockVerificationCodeRepository(t)

			mockFactory.EXPECT().VerificationCodeRepo().Return(mockCodeRepo)
			mockCodeRepo.EXPECT().
				FindByAccount(ctx, account.ID).
				Return(&entity.VerificationCode{
					ID:        uuid.New(),
					AccountID: account.ID,
					Code:      "12345678",
					ExpiresAt: time.Now().Add(-time.Minute),
				}, nil)

			return fn(mockFactory)
		})

	err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{
		Email: "test@example.com",
		Code:  "12345678",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrVerificationCodeInvalid))
}

func TestVerificationService_VerifyEmail_UnknownAccount(t *testing.T) {
	fx := createTestVerificationService(t)

	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)

	err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{
		Email: "ghost@example.com",
		Code:  "12345678",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrVerificationCodeInvalid))
}

func TestGenerateNumericCode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{8}$`)

	for range 100 {
		code, err := generateNumericCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpmiddleware "passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/validator"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/entity"
	mocksusecase "passport/internal/mocks/usecase"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authHandlerFixtures struct {
	authUC         *mocksusecase.MockAuthUsecase
	verificationUC *mocksusecase.MockVerificationUsecase
	server         *echo.Echo
}

// newTestServer wires the handler into a real Echo instance so requests run
// through binding, validation, and the error handler like in production.
func newTestServer(t *testing.T) *authHandlerFixtures {
	t.Helper()

	fixtures := &authHandlerFixtures{
		authUC:         mocksusecase.NewMockAuthUsecase(t),
		verificationUC: mocksusecase.NewMockVerificationUsecase(t),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAuthHandler(fixtures.authUC, fixtures.verificationUC, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger).HandleHTTPError

	e.POST("/auth/resolve", h.Resolve)
	e.POST("/auth/google/callback", h.GoogleCallback)
	e.POST("/auth/email/verify", h.VerifyEmail)
	e.POST("/auth/email/resend", h.ResendVerification)

	fixtures.server = e

	return fixtures
}

func (f *authHandlerFixtures) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	return rec
}

func testAccount() *entity.Account {
	return &entity.Account{
		ID:            uuid.New(),
		Email:         "user@example.com",
		Name:          "Test User",
		EmailVerified: true,
		Provider:      entity.ProviderTypeEmail,
		CreatedAt:     time.Now(),
	}
}

func TestAuthHandler_Resolve_Login(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)
	account := testAccount()

	fixtures.authUC.EXPECT().
		Resolve(mock.Anything, mock.MatchedBy(func(input *usecase.ResolveInput) bool {
			return input.Type == usecase.ResolveTypeLogin && input.Email == "user@example.com"
		})).
		Return(&usecase.ResolveOutput{Account: account, AccessToken: "token123"}, nil)

	rec := fixtures.postJSON("/auth/resolve", `{"type":"login","email":"user@example.com","password":"password123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"accessToken":"token123"`)
	assert.Contains(t, body, `"email":"user@example.com"`)
	// Hashes never appear in responses, not even as an empty field.
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "PasswordHash")
}

func TestAuthHandler_Resolve_SignupReturnsCreated(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)
	account := testAccount()
	account.EmailVerified = false

	fixtures.authUC.EXPECT().
		Resolve(mock.Anything, mock.MatchedBy(func(input *usecase.ResolveInput) bool {
			return input.Type == usecase.ResolveTypeSignup && input.AcceptTerms
		})).
		Return(&usecase.ResolveOutput{Account: account, AccessToken: "token123"}, nil)

	rec := fixtures.postJSON("/auth/resolve",
		`{"type":"signup","email":"user@example.com","password":"password123","name":"Test User","acceptTerms":true}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"emailVerified":false`)
}

func TestAuthHandler_Resolve_SignupWithoutNameOrTerms(t *testing.T) {
	t.Parallel()

	// Name and terms acceptance are optional; a bare signup payload must
	// reach the resolver and create the account.
	fixtures := newTestServer(t)
	account := testAccount()
	account.Email = "a@x.com"
	account.Name = ""
	account.EmailVerified = false

	fixtures.authUC.EXPECT().
		Resolve(mock.Anything, mock.MatchedBy(func(input *usecase.ResolveInput) bool {
			return input.Type == usecase.ResolveTypeSignup &&
				input.Email == "a@x.com" &&
				input.Name == "" &&
				!input.AcceptTerms
		})).
		Return(&usecase.ResolveOutput{Account: account, AccessToken: "token123"}, nil)

	rec := fixtures.postJSON("/auth/resolve", `{"email":"a@x.com","password":"secret123","type":"signup"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)
}

func TestAuthHandler_Resolve_ValidationFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "malformed email",
			body:  `{"type":"login","email":"not-an-email","password":"password123"}`,
			field: `"field":"email"`,
		},
		{
			name:  "password too short",
			body:  `{"type":"login","email":"user@example.com","password":"short"}`,
			field: `"field":"password"`,
		},
		{
			name:  "unknown type",
			body:  `{"type":"register","email":"user@example.com","password":"password123"}`,
			field: `"field":"type"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// The usecase must never be reached with an invalid payload.
			fixtures := newTestServer(t)

			rec := fixtures.postJSON("/auth/resolve", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `"code":"VALIDATION_FAILED"`)
			assert.Contains(t, body, tt.field)
		})
	}
}

func TestAuthHandler_Resolve_InvalidCredentials(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	fixtures.authUC.EXPECT().
		Resolve(mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrInvalidCredentials)

	rec := fixtures.postJSON("/auth/resolve", `{"type":"login","email":"user@example.com","password":"password123"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INVALID_CREDENTIALS"`)
}

func TestAuthHandler_Resolve_DuplicateEmail(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	fixtures.authUC.EXPECT().
		Resolve(mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrAccountAlreadyExists)

	rec := fixtures.postJSON("/auth/resolve",
		`{"type":"signup","email":"user@example.com","password":"password123","name":"Test User","acceptTerms":true}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ACCOUNT_ALREADY_EXISTS"`)
}

func TestAuthHandler_GoogleCallback(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)
	account := testAccount()
	account.Provider = entity.ProviderTypeGoogle

	fixtures.authUC.EXPECT().
		GoogleCallback(mock.Anything, &usecase.GoogleCallbackInput{IDToken: "google-id-token"}).
		Return(&usecase.ResolveOutput{Account: account, AccessToken: "token123"}, nil)

	rec := fixtures.postJSON("/auth/google/callback", `{"idToken":"google-id-token"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"google"`)
}

func TestAuthHandler_GoogleCallback_MissingToken(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	rec := fixtures.postJSON("/auth/google/callback", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ID token is required")
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	fixtures.verificationUC.EXPECT().
		VerifyEmail(mock.Anything, &usecase.VerifyEmailInput{Email: "user@example.com", Code: "12345678"}).
		Return(nil)

	rec := fixtures.postJSON("/auth/email/verify", `{"email":"user@example.com","code":"12345678"}`)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_VerifyEmail_InvalidCode(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	fixtures.verificationUC.EXPECT().
		VerifyEmail(mock.Anything, mock.Anything).
		Return(domainerrors.ErrVerificationCodeInvalid)

	rec := fixtures.postJSON("/auth/email/verify", `{"email":"user@example.com","code":"00000000"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VERIFICATION_CODE_INVALID"`)
}

func TestAuthHandler_VerifyEmail_RejectsNonNumericCode(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	rec := fixtures.postJSON("/auth/email/verify", `{"email":"user@example.com","code":"abcdefgh"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION_FAILED"`)
}

func TestAuthHandler_ResendVerification(t *testing.T) {
	t.Parallel()

	fixtures := newTestServer(t)

	fixtures.verificationUC.EXPECT().
		IssueVerificationCode(mock.Anything, "user@example.com").
		Return(nil)

	rec := fixtures.postJSON("/auth/email/resend", `{"email":"user@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "If the account exists")
}

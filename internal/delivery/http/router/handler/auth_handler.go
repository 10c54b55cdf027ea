// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"passport/internal/delivery/http/response"
	"passport/internal/domain/entity"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication-related handlers.
type AuthHandler struct {
	authUC         usecase.AuthUsecase
	verificationUC usecase.VerificationUsecase
	logger         *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUC usecase.AuthUsecase, verificationUC usecase.VerificationUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUC:         authUC,
		verificationUC: verificationUC,
		logger:         logger,
	}
}

// accountResponse is the public view of an account. Password hashes never
// leave the service.
type accountResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	Provider      string    `json:"provider"`
	CreatedAt     time.Time `json:"createdAt"`
}

// resolveResponse pairs the account with its freshly issued access token.
type resolveResponse struct {
	Account     *accountResponse `json:"account"`
	AccessToken string           `json:"accessToken"`
	ExpiresIn   int64            `json:"expiresIn"`
}

func toAccountResponse(account *entity.Account) *accountResponse {
	if account == nil {
		return nil
	}

	return &accountResponse{
		ID:            account.ID,
		Email:         account.Email,
		Name:          account.Name,
		EmailVerified: account.EmailVerified,
		Provider:      string(account.Provider),
		CreatedAt:     account.CreatedAt,
	}
}

// Resolve handles the combined login-or-signup request. The "type" field of
// the payload selects the branch.
func (h *AuthHandler) Resolve(c echo.Context) error {
	var input *usecase.ResolveInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resolve input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.authUC.Resolve(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	statusCode := http.StatusOK
	message := "Login successful"
	if input.Type == usecase.ResolveTypeSignup {
		statusCode = http.StatusCreated
		message = "Account created successfully"
	}

	return response.Success(c, statusCode, resolveResponse{
		Account:     toAccountResponse(output.Account),
		AccessToken: output.AccessToken,
		ExpiresIn:   output.ExpiresIn,
	}, message)
}

// GoogleCallback handles the Google Sign-In callback.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	var input *usecase.GoogleCallbackInput

	// Google may POST the token as a form value, SPAs send JSON.
	if idToken := c.FormValue("id_token"); idToken != "" {
		input = &usecase.GoogleCallbackInput{IDToken: idToken}
	} else if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google callback input")
	}

	if input == nil || input.IDToken == "" {
		return response.BadRequest(c, "INVALID_INPUT", "ID token is required")
	}

	output, err := h.authUC.GoogleCallback(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, resolveResponse{
		Account:     toAccountResponse(output.Account),
		AccessToken: output.AccessToken,
		ExpiresIn:   output.ExpiresIn,
	}, "Google authentication successful")
}

// VerifyEmail handles the verification code confirmation request.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var input *usecase.VerifyEmailInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.verificationUC.VerifyEmail(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"email": input.Email}, "Email verified successfully")
}

// resendVerificationRequest carries the address to re-issue a code for.
type resendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification handles a request to mint and mail a fresh verification
// code. The response does not reveal whether the address exists.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var input *resendVerificationRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resend input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.verificationUC.IssueVerificationCode(c.Request().Context(), input.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"email": input.Email}, "If the account exists, a verification code has been sent")
}

// GetProfile returns the identity carried by the validated access token.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	accountIDVal := c.Get("accountID")
	accountID, ok := accountIDVal.(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid account ID in token")
	}

	provider, _ := c.Get("provider").(string)

	return response.Success(c, http.StatusOK, map[string]string{
		"account_id": accountID.String(),
		"provider":   provider,
	}, "Profile retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

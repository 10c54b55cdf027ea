package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"
	mocksusecase "passport/internal/mocks/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pushHandlerFixtures struct {
	verificationUC *mocksusecase.MockVerificationUsecase
	handler        *PushHandler
	server         *echo.Echo
}

func newTestPushHandler(t *testing.T) *pushHandlerFixtures {
	t.Helper()

	fixtures := &pushHandlerFixtures{
		verificationUC: mocksusecase.NewMockVerificationUsecase(t),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixtures.handler = NewPushHandler(PushHandlerParams{
		Config:         &config.Config{},
		Logger:         logger,
		VerificationUC: fixtures.verificationUC,
	})

	e := echo.New()
	e.HideBanner = true
	e.POST("/push", fixtures.handler.HandlePush)
	fixtures.server = e

	return fixtures
}

func (f *pushHandlerFixtures) push(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	return rec
}

// pushBody wraps a verification event in the Pub/Sub push envelope.
func pushBody(t *testing.T, event *service.VerificationEvent, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	attrJSON, err := json.Marshal(attributes)
	require.NoError(t, err)

	return fmt.Sprintf(`{"message":{"data":%q,"attributes":%s,"messageId":"msg-1"},"subscription":"sub-1"}`,
		base64.StdEncoding.EncodeToString(data), attrJSON)
}

func TestPushHandler_HandlePush_Success(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	fixtures.verificationUC.EXPECT().
		IssueVerificationCode(mock.Anything, "user@example.com").
		Return(nil)

	body := pushBody(t, &service.VerificationEvent{
		RequestID: "req-1",
		AccountID: "acc-1",
		Email:     "user@example.com",
	}, nil)

	rec := fixtures.push(body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_HandlePush_InvalidBase64(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	rec := fixtures.push(`{"message":{"data":"not base64!!","messageId":"msg-1"},"subscription":"sub-1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushHandler_HandlePush_MissingEmail(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	body := pushBody(t, &service.VerificationEvent{AccountID: "acc-1"}, nil)

	rec := fixtures.push(body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushHandler_HandlePush_StorageFailureTriggersRetry(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	fixtures.verificationUC.EXPECT().
		IssueVerificationCode(mock.Anything, "user@example.com").
		Return(domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "insert verification code"))

	body := pushBody(t, &service.VerificationEvent{Email: "user@example.com"}, nil)

	rec := fixtures.push(body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPushHandler_HandlePush_NonAppErrorTriggersRetry(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	fixtures.verificationUC.EXPECT().
		IssueVerificationCode(mock.Anything, "user@example.com").
		Return(errors.New("tx commit failed"))

	body := pushBody(t, &service.VerificationEvent{Email: "user@example.com"}, nil)

	rec := fixtures.push(body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPushHandler_HandlePush_DomainErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	fixtures.verificationUC.EXPECT().
		IssueVerificationCode(mock.Anything, "user@example.com").
		Return(domainerrors.ErrVerificationCodeInvalid)

	body := pushBody(t, &service.VerificationEvent{Email: "user@example.com"}, nil)

	rec := fixtures.push(body)

	// Acked so Pub/Sub does not redeliver a message that can never succeed.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_ExtractRequestID(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	tests := []struct {
		name       string
		attributes map[string]string
		event      *service.VerificationEvent
		want       string
	}{
		{
			name:       "attribute wins over event field",
			attributes: map[string]string{"request_id": "from-attr"},
			event:      &service.VerificationEvent{RequestID: "from-event"},
			want:       "from-attr",
		},
		{
			name:  "falls back to event field",
			event: &service.VerificationEvent{RequestID: "from-event"},
			want:  "from-event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var pushMsg PubSubMessage
			pushMsg.Message.Attributes = tt.attributes

			got := fixtures.handler.extractRequestID(t.Context(), &pushMsg, tt.event)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPushHandler_ExtractRequestID_GeneratesFallback(t *testing.T) {
	t.Parallel()

	fixtures := newTestPushHandler(t)

	var pushMsg PubSubMessage
	got := fixtures.handler.extractRequestID(t.Context(), &pushMsg, &service.VerificationEvent{})
	assert.NotEmpty(t, got)
}

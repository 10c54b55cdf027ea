package impl

import (
	"io"
	"log/slog"
	"time"

	"passport/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(codeTTL time.Duration) *config.Config {
	return &config.Config{
		Verification: &config.VerificationConfig{
			CodeTTL: codeTTL,
		},
	}
}

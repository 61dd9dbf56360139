package notify_test

import (
	"context"
	"testing"

	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMailer_DisabledUsesNop(t *testing.T) {
	mailer, err := notify.NewMailer(context.Background(), &config.EmailConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &notify.NopMailer{}, mailer)

	assert.NoError(t, mailer.Send(context.Background(), notify.Message{To: "a@example.com", Subject: "hi"}))
}

func TestNewMailer_EnabledRequiresFromAddress(t *testing.T) {
	_, err := notify.NewMailer(context.Background(), &config.EmailConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)
}

package email

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

func TestNewEmailProvider_Validation(t *testing.T) {
	_, err := NewEmailProvider("", "user", "pass", "587", slog.Default())
	assert.Error(t, err)

	_, err = NewEmailProvider("smtp.example.com", "user", "pass", "not-a-port", slog.Default())
	assert.Error(t, err)
}

func TestFromEnv_Unset(t *testing.T) {
	t.Setenv(config.ENV_KEY_SMTP_HOST, "")

	p, err := FromEnv(slog.Default())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSendEmail_RejectsBadAddresses(t *testing.T) {
	p, err := NewEmailProvider("smtp.example.com", "user", "pass", "587", slog.Default())
	require.NoError(t, err)
	defer p.Close()

	err = p.SendEmail(context.Background(), usecase.Email{From: "not an address", To: []string{"a@example.com"}})
	assert.Error(t, err)

	err = p.SendEmail(context.Background(), usecase.Email{From: "a@example.com", To: []string{"@@"}})
	assert.Error(t, err)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"dues_portal_echo/internal/config"
)

func TestSMTPSenderRequiresCredentials(t *testing.T) {
	err := NewSMTPSender("", "587", "", "", "x@example.com").Send(context.Background(), EmailMessage{To: "a@example.com"})
	assert.EqualError(t, err, "SMTP credentials not fully configured")
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "admin@example.com", envelopeAddress("Association Admin <admin@example.com>"))
	assert.Equal(t, "admin@example.com", envelopeAddress("admin@example.com"))
}

func TestBuildEmailSender(t *testing.T) {
	assert.Equal(t, "log", BuildEmailSender(&config.Config{}).Name())
	assert.Equal(t, "smtp", BuildEmailSender(&config.Config{SMTPHost: "smtp.example.com"}).Name())
	assert.Equal(t, "resend", BuildEmailSender(&config.Config{ResendAPIKey: "re_x"}).Name())
	// one provider only, so a failed send is never delivered twice through another
	assert.Equal(t, "resend", BuildEmailSender(&config.Config{ResendAPIKey: "re_x", SMTPHost: "smtp.example.com"}).Name())
}

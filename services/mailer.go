package services

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"

	"skillmap-backend/config"
)

// Mailer delivers password-reset codes.
type Mailer interface {
	SendResetCode(to, code string) error
}

// ResendMailer sends through the Resend API. Without an API key it logs the
// code instead, which keeps the reset flow usable in development.
type ResendMailer struct {
	apiKey    string
	fromEmail string
	logger    *log.Logger
}

func NewResendMailer(cfg *config.Config, logger *log.Logger) *ResendMailer {
	return &ResendMailer{apiKey: cfg.ResendAPIKey, fromEmail: cfg.FromEmail, logger: logger}
}

func (m *ResendMailer) SendResetCode(to, code string) error {
	if m.apiKey == "" {
		m.logger.Printf("RESEND_API_KEY not set, skipping email send")
		m.logger.Printf("[Dev Mode] Reset code for %s: %s", to, code)
		return nil
	}

	client := resend.NewClient(m.apiKey)
	params := &resend.SendEmailRequest{
		From:    m.fromEmail,
		To:      []string{to},
		Subject: "Your SkillMapAI Password Reset Code",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Password Reset Code</h2>
				<p>You requested a password reset for your SkillMapAI account.</p>
				<p>Your verification code is:</p>
				<div style="background: #f3f4f6; border: 2px dashed #3b82f6; border-radius: 8px; padding: 20px; text-align: center;">
					<h1 style="font-size: 32px; letter-spacing: 4px; font-family: monospace; margin: 0;">%s</h1>
				</div>
				<p><strong>This code will expire in 15 minutes.</strong></p>
				<p style="color: #888; font-size: 14px;">
					If you didn't request this password reset, please ignore this email. Your password will remain unchanged.
				</p>
			</div>
		`, code),
		Text: fmt.Sprintf("Your SkillMapAI password reset code is: %s\n\nThis code will expire in 15 minutes.\nIf you didn't request this password reset, please ignore this email.", code),
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Printf("Reset code email sent to %s (ID: %s)", to, sent.Id)
	return nil
}

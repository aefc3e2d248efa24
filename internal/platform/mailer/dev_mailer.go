package mailer

import (
	"github.com/google/uuid"

	"github.com/campusclubs/clubhub/pkg/logger"
)

// DevMailer logs instead of sending. Used when EMAIL_MODE=log.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, _ string) (string, error) {
	id := uuid.NewString()
	logger.Info("DEV MAIL",
		"message_id", id,
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"body", text,
	)
	return id, nil
}

package mailer

// Service delivers transactional email to attendees.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}

package mail

import (
	"fmt"
	"net/url"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers account emails. Callers treat delivery as
// fire-and-forget: a failed send never rolls back the state change that
// preceded it.
type Sender interface {
	SendVerificationEmail(to, userID, token string) error
	SendPasswordResetEmail(to, userID, token string) error
}

// Mailer sends email over SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

var _ Sender = (*Mailer)(nil)

// NewMailer creates an SMTP-backed Mailer. baseURL is the public URL
// the verification and reset links point at.
func NewMailer(host string, port int, username, password, from, baseURL string) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
	}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendVerificationEmail mails the address-confirmation link.
func (m *Mailer) SendVerificationEmail(to, userID, token string) error {
	link := fmt.Sprintf("%s/api/auth/verify-email?userId=%s&token=%s",
		m.baseURL, userID, url.QueryEscape(token))

	body := fmt.Sprintf(`
		<h1>Email Verification</h1>
		<p>Thank you for registering. Please verify your email address by clicking the link below:</p>
		<p><a href="%s">Verify Email</a></p>
		<p>If you didn't register on our site, please ignore this email.</p>
		<p>This link will expire in 24 hours.</p>`, link)

	return m.send(to, "Verify your email address", body)
}

// SendPasswordResetEmail mails the password-reset link.
func (m *Mailer) SendPasswordResetEmail(to, userID, token string) error {
	link := fmt.Sprintf("%s/reset-password?userId=%s&token=%s",
		m.baseURL, userID, url.QueryEscape(token))

	body := fmt.Sprintf(`
		<h1>Password Reset</h1>
		<p>You requested a password reset. Please click the link below to reset your password:</p>
		<p><a href="%s">Reset Password</a></p>
		<p>If you didn't request a password reset, please ignore this email.</p>
		<p>This link will expire in 24 hours.</p>`, link)

	return m.send(to, "Reset your password", body)
}

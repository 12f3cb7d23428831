package smtp

import (
	"gopkg.in/gomail.v2"

	"github.com/fooddemand/api/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, textBody, htmlBody string) error
}

type mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds a Mailer over an authenticated SMTP dialer. When
// cfg.SMTPSecure is set the connection uses implicit TLS; otherwise the
// dialer upgrades via STARTTLS when the server offers it.
func NewMailer(cfg *config.Config) Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.SSL = cfg.SMTPSecure
	return &mailer{dialer: d, from: cfg.SMTPFrom}
}

func (m *mailer) SendEmail(to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}
	return m.dialer.DialAndSend(msg)
}

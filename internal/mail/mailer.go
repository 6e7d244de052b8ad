package mail

import (
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail over SMTP. Delivery is fire-and-forget:
// failures are logged, never returned to the request path.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) Send(to, subject, body string) {
	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
		if err := dialer.DialAndSend(msg); err != nil {
			slog.Error("mail delivery failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

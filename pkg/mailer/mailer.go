package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer is the transactional-email boundary. Delivery is best-effort: the
// handlers log failures but never fail a request over them.
type Mailer interface {
	SendReportLink(to, reportURL string) error
	SendContactNotice(name, email, page, message string) error
}

var ErrNotConfigured = errors.New("mailer: smtp host not configured")

// SMTP delivers mail through a plain SMTP relay.
type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	ContactTo string
}

func (m *SMTP) send(to, subject, htmlBody string) error {
	if m.Host == "" {
		return ErrNotConfigured
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(b.String()))
}

// SendReportLink mails the stored report URL to a captured lead.
func (m *SMTP) SendReportLink(to, reportURL string) error {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height:1.5;">
<h2>Your staffing report is ready</h2>
<p>Here is your link:</p>
<p><a href="%s">%s</a></p>
</div>`, reportURL, reportURL)
	return m.send(to, "Your staffing report", body)
}

// SendContactNotice forwards a contact-form message to the configured admin
// address. A missing admin address is not an error; the notice is optional.
func (m *SMTP) SendContactNotice(name, email, page, message string) error {
	if m.ContactTo == "" {
		return nil
	}
	if name == "" {
		name = "-"
	}
	if email == "" {
		email = "-"
	}
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height:1.5;">
<h3>New contact message</h3>
<p><b>Name:</b> %s</p>
<p><b>Email:</b> %s</p>
<p><b>Page:</b> %s</p>
<p><b>Message:</b></p>
<div>%s</div>
</div>`, name, email, page, strings.ReplaceAll(message, "\n", "<br/>"))
	return m.send(m.ContactTo, "Contact form: "+name, body)
}

// Nop discards all mail; used in tests and when SMTP is not configured.
type Nop struct{}

func (Nop) SendReportLink(string, string) error                    { return nil }
func (Nop) SendContactNotice(string, string, string, string) error { return nil }

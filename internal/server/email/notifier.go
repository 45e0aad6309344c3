// Package email delivers account mail. The only message today is the
// password reset code.
package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Notifier sends a single message to one recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// smtpSendMail is a seam for testing smtp.SendMail.
var smtpSendMail = smtp.SendMail

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

// NewSMTPNotifier constructs a notifier for the given relay. Credentials may
// be empty for an unauthenticated relay.
func NewSMTPNotifier(host, port, username, password, from, fromName string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// Send delivers the message, honoring context cancellation before dialing.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send aborted: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", n.fromName, n.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	addr := net.JoinHostPort(n.host, n.port)
	if err := smtpSendMail(addr, auth, n.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}

// ResetCodeMessage renders the body of a password reset mail.
func ResetCodeMessage(code string, ttl time.Duration) string {
	minutes := int(ttl.Minutes())
	return fmt.Sprintf(
		"Your password reset code is %s.\r\n\r\n"+
			"The code expires in %d minutes. If you did not request a password reset, you can ignore this message.\r\n",
		code, minutes,
	)
}

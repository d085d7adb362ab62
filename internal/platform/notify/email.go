package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mailer delivers code e-mails through the local mail submission agent
// (Postfix, MailHog, ...). With LogOnly set, delivery is skipped and the
// event is logged instead — local dev and tests.
type Mailer struct {
	host    string
	port    int
	user    string
	pass    string
	from    string
	logOnly bool
	// If true, skip TLS certificate verification (local dev, MailHog).
	InsecureSkipVerify bool
}

func NewMailer(host string, port int, user, pass, from string, logOnly bool) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, logOnly: logOnly}
}

// send delivers one multipart (text + HTML) message over net/smtp.
// Works against MailHog (no auth) and regular servers (PlainAuth).
func (m *Mailer) send(ctx context.Context, to, subject, text, html string) error {
	if m.logOnly {
		log.Printf("[email][LOG_ONLY] to=%s subject=%q", to, subject)
		return nil
	}

	msg := buildMessage(m.from, to, subject, text, html)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	c, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Quit(); err != nil {
			log.Printf("[email] smtp quit: %v", err)
		}
	}()

	// STARTTLS when offered (MailHog offers it but does not require it).
	if ok, _ := c.Extension("STARTTLS"); ok {
		cfg := &tls.Config{
			ServerName:         m.host,
			InsecureSkipVerify: m.InsecureSkipVerify,
		}
		if err := c.StartTLS(cfg); err != nil {
			return err
		}
		// re-EHLO after TLS to refresh the extension list
		if err := c.Hello("localhost"); err != nil {
			return err
		}
	}

	if auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("[email] sent to=%s", to)
	return nil
}

func (m *Mailer) dial(ctx context.Context) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := c.Hello("localhost"); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// buildMessage assembles a multipart/alternative MIME message with a plain
// text part and an HTML part.
func buildMessage(from, to, subject, text, html string) string {
	boundary := "mp-" + uuid.New().String()

	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", subject) + "\r\n")
	sb.WriteString("Message-ID: <" + uuid.New().String() + "@" + hostPart(from) + ">\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(`Content-Type: multipart/alternative; boundary="` + boundary + `"` + "\r\n")
	sb.WriteString("\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	sb.WriteString(text)
	sb.WriteString("\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	sb.WriteString(html)
	sb.WriteString("\r\n")

	sb.WriteString("--" + boundary + "--\r\n")
	return sb.String()
}

func hostPart(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 {
		return strings.TrimSuffix(addr[i+1:], ">")
	}
	return "localhost"
}

func (m *Mailer) SendVerification(ctx context.Context, to, code string) error {
	text := fmt.Sprintf(
		"Hello!\n\nYour verification code is: %s\n\nThis code expires in 15 minutes.\n\nIf this wasn't you, ignore this e-mail.\n", code)
	html := fmt.Sprintf(
		`<h2>Account verification</h2><p>Your verification code is:</p><h1 style="letter-spacing:4px">%s</h1><p>This code expires in 15 minutes.</p><p>If this wasn't you, ignore this e-mail.</p>`, code)
	return m.send(ctx, to, "Your verification code", text, html)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, code string) error {
	text := fmt.Sprintf(
		"Hello!\n\nYou requested a password reset for your account.\n\nYour recovery code is: %s\n\nThis code expires in 15 minutes.\n\nIf you didn't request this, ignore this e-mail. Your password stays safe.\n", code)
	html := fmt.Sprintf(
		`<h2>Password recovery</h2><p>You requested a password reset.</p><p>Your recovery code is:</p><h1 style="letter-spacing:4px">%s</h1><p>This code expires in 15 minutes.</p><p>If this wasn't you, ignore this e-mail. Your password stays safe.</p>`, code)
	return m.send(ctx, to, "Password recovery", text, html)
}

// VerifyConnection probes the SMTP server. Best effort, never errors;
// health reporting only.
func (m *Mailer) VerifyConnection(ctx context.Context) bool {
	if m.logOnly {
		return true
	}
	c, err := m.dial(ctx)
	if err != nil {
		log.Printf("[email] smtp probe failed: %v", err)
		return false
	}
	if err := c.Quit(); err != nil {
		log.Printf("[email] smtp probe quit: %v", err)
	}
	return true
}

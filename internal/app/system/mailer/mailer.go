// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sender is what handlers depend on, so tests can capture messages.
type Sender interface {
	Send(email Email) error
}

// Mailer sends emails via SMTP.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// Config holds the configuration for creating a Mailer.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// New creates a new Mailer with the given configuration.
func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		pass:     cfg.Pass,
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
	}
}

// FromName returns the configured sender display name.
func (m *Mailer) FromName() string {
	return m.fromName
}

// Enabled reports whether an SMTP host is configured. A disabled mailer
// drops messages after logging them at debug level.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Email is one outgoing message. ReplyTo lets the owner answer a contact
// notice straight to the visitor.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Send delivers email over SMTP. With an HTMLBody the message is
// multipart/alternative with the text part first.
func (m *Mailer) Send(email Email) error {
	if !m.Enabled() {
		m.log.Debug("mail disabled; message dropped",
			zap.String("to", email.To),
			zap.String("subject", email.Subject))
		return nil
	}

	msg, err := m.compose(email, randomBoundary())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.user != "" && m.pass != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	if err := smtp.SendMail(addr, auth, m.from, []string{email.To}, msg); err != nil {
		m.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return errors.Wrap(err, "send email")
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}

// compose renders the RFC 5322 message. Header values are checked for line
// breaks and non-ASCII text is Q-encoded, so Arabic subjects and display
// names survive any relay.
func (m *Mailer) compose(email Email, boundary string) ([]byte, error) {
	for _, v := range []string{email.To, email.ReplyTo, email.Subject} {
		if strings.ContainsAny(v, "\r\n") {
			return nil, errors.New("mail header contains a line break")
		}
	}
	if _, err := mail.ParseAddress(email.To); err != nil {
		return nil, errors.Wrapf(err, "invalid recipient %q", email.To)
	}

	from := (&mail.Address{Name: m.fromName, Address: m.from}).String()

	var msg bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&msg, "%s: %s\r\n", k, v) }
	header("From", from)
	header("To", email.To)
	if email.ReplyTo != "" {
		if _, err := mail.ParseAddress(email.ReplyTo); err == nil {
			header("Reply-To", email.ReplyTo)
		}
	}
	header("Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	header("MIME-Version", "1.0")

	if email.HTMLBody == "" {
		header("Content-Type", "text/plain; charset=UTF-8")
		msg.WriteString("\r\n")
		msg.WriteString(email.TextBody)
		return msg.Bytes(), nil
	}

	header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
	msg.WriteString("\r\n")
	for _, part := range []struct{ ctype, body string }{
		{"text/plain", email.TextBody},
		{"text/html", email.HTMLBody},
	} {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		fmt.Fprintf(&msg, "Content-Type: %s; charset=UTF-8\r\n\r\n", part.ctype)
		msg.WriteString(part.body)
		msg.WriteString("\r\n")
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	return msg.Bytes(), nil
}

// randomBoundary returns a multipart boundary unlikely to occur in a body.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "----=_Part_" + hex.EncodeToString(b)
}

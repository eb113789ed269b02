package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers generated reports over SMTP. The report text goes out
// verbatim as a plain-text body so downstream parsers see the exact
// delimited layout.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *zap.Logger
	send     sendFunc
}

// sendFunc matches smtp.SendMail, swappable in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

func New(host string, port int, username, password, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
		send:     smtp.SendMail,
	}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	msg := buildMessage(m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	start := time.Now()
	if err := m.send(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("Report email sent",
		zap.String("to", to),
		zap.Duration("took", time.Since(start)))
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

// sanitizeHeader strips CR/LF so a crafted subject cannot inject headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

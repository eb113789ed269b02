package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSendBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := New("smtp.example.com", 587, "user", "pass", "bot@example.com", zap.NewNop())
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	body := "MEETING_REPORT;05/03/2026\r\nCONTESTO DELL'INCONTRO;Demo"
	err := m.Send(context.Background(), "dest@example.com", "Meeting Report; Acme; 05/03/2026", body)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "bot@example.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "dest@example.com" {
		t.Errorf("to = %v", gotTo)
	}

	msg := string(gotMsg)
	if !strings.Contains(msg, "Subject: Meeting Report; Acme; 05/03/2026\r\n") {
		t.Errorf("subject header missing:\n%s", msg)
	}
	// The report body must survive verbatim after the blank header line.
	if !strings.HasSuffix(msg, "\r\n\r\n"+body) {
		t.Errorf("body not passed through verbatim:\n%s", msg)
	}
}

func TestSendPropagatesError(t *testing.T) {
	m := New("smtp.example.com", 25, "", "", "bot@example.com", zap.NewNop())
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	if err := m.Send(context.Background(), "dest@example.com", "s", "b"); err == nil {
		t.Error("expected error from failing transport")
	}
}

func TestSendHonorsContext(t *testing.T) {
	called := false
	m := New("smtp.example.com", 25, "", "", "bot@example.com", zap.NewNop())
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, "dest@example.com", "s", "b"); err == nil {
		t.Error("expected error for cancelled context")
	}
	if called {
		t.Error("transport must not run after cancellation")
	}
}

func TestSanitizeHeader(t *testing.T) {
	got := sanitizeHeader("Oggetto\r\nBcc: evil@example.com")
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("header still contains line breaks: %q", got)
	}
}

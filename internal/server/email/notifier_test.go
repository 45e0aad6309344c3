package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func TestSend_BuildsMessage(t *testing.T) {
	orig := smtpSendMail
	defer func() { smtpSendMail = orig }()

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	n := NewSMTPNotifier("mail.example.com", "587", "user", "pass", "noreply@example.com", "NileGuide")
	err := n.Send(context.Background(), "alice@example.com", "Password reset", "body text")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotAddr != "mail.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotAuth == nil {
		t.Error("expected plain auth with credentials set")
	}
	if gotFrom != "noreply@example.com" || len(gotTo) != 1 || gotTo[0] != "alice@example.com" {
		t.Errorf("envelope = %q -> %v", gotFrom, gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{
		"From: NileGuide <noreply@example.com>\r\n",
		"To: alice@example.com\r\n",
		"Subject: Password reset\r\n",
		"\r\n\r\nbody text",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSend_NoAuthWithoutCredentials(t *testing.T) {
	orig := smtpSendMail
	defer func() { smtpSendMail = orig }()

	var gotAuth smtp.Auth
	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAuth = a
		return nil
	}

	n := NewSMTPNotifier("localhost", "25", "", "", "noreply@example.com", "NileGuide")
	if err := n.Send(context.Background(), "bob@example.com", "s", "b"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if gotAuth != nil {
		t.Error("expected nil auth for empty credentials")
	}
}

func TestSend_CancelledContext(t *testing.T) {
	orig := smtpSendMail
	defer func() { smtpSendMail = orig }()

	called := false
	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewSMTPNotifier("localhost", "25", "", "", "noreply@example.com", "NileGuide")
	err := n.Send(ctx, "bob@example.com", "s", "b")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if called {
		t.Error("dial should not happen with a dead context")
	}
}

func TestSend_RelayError(t *testing.T) {
	orig := smtpSendMail
	defer func() { smtpSendMail = orig }()

	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	n := NewSMTPNotifier("localhost", "25", "", "", "noreply@example.com", "NileGuide")
	err := n.Send(context.Background(), "bob@example.com", "s", "b")
	if err == nil || !strings.Contains(err.Error(), "smtp send error") {
		t.Fatalf("expected wrapped relay error, got %v", err)
	}
}

func TestResetCodeMessage(t *testing.T) {
	body := ResetCodeMessage("042317", 10*time.Minute)
	if !strings.Contains(body, "042317") {
		t.Errorf("body missing code: %q", body)
	}
	if !strings.Contains(body, "10 minutes") {
		t.Errorf("body missing expiry hint: %q", body)
	}
}

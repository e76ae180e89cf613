package email

import (
	"strings"
	"testing"
)

func TestSendOTPDevMode(t *testing.T) {
	m := NewMailer(SMTPConfig{}, true)
	if err := m.SendOTP("devotee@example.com", "123456"); err != nil {
		t.Errorf("SendOTP() error = %v, want nil in dev mode", err)
	}
}

func TestSendUnconfigured(t *testing.T) {
	err := Send(SMTPConfig{}, []string{"devotee@example.com"}, "subject", "body")
	if err == nil {
		t.Fatal("Send() error = nil, want error without SMTP settings")
	}
	if !strings.Contains(err.Error(), "SMTP not configured") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestIsConfigured(t *testing.T) {
	if (SMTPConfig{}).IsConfigured() {
		t.Error("empty config reports configured")
	}
	cfg := SMTPConfig{Host: "smtp.example.com", From: "yatra@example.com"}
	if !cfg.IsConfigured() {
		t.Error("host+from config reports unconfigured")
	}
}

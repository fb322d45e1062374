package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type SMTPSettings struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// SMTPFromEnv reads the SMTP_* variables.
func SMTPFromEnv() SMTPSettings {
	return SMTPSettings{
		Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		Port:     strings.TrimSpace(os.Getenv("SMTP_PORT")),
		Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		Password: os.Getenv("SMTP_PASSWORD"),
		FromName: EnvOrDefault("SMTP_FROM_NAME", "Airbnb Clone"),
	}
}

func (s SMTPSettings) Configured() bool {
	return s.Host != "" && s.Port != "" && s.Username != "" && s.Password != ""
}

// SMTPMailer delivers verification mail. Without SMTP settings it only logs
// the link, which is what local development relies on.
type SMTPMailer struct {
	Settings SMTPSettings
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(settings SMTPSettings) *SMTPMailer {
	return &SMTPMailer{Settings: settings, send: smtp.SendMail}
}

func (m *SMTPMailer) SendVerification(recipientEmail, name, verifyLink string) error {
	if !m.Settings.Configured() {
		logrus.WithFields(logrus.Fields{"to": recipientEmail, "link": verifyLink}).Info("[MOCK EMAIL] verify account")
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	name = safe(name)
	verifyLink = safe(verifyLink)
	recipientEmail = safe(recipientEmail)

	msg := BuildVerificationMessage(m.Settings, recipientEmail, name, verifyLink)
	auth := smtp.PlainAuth("", m.Settings.Username, m.Settings.Password, m.Settings.Host)
	addr := fmt.Sprintf("%s:%s", m.Settings.Host, m.Settings.Port)

	if err := m.send(addr, auth, m.Settings.Username, []string{recipientEmail}, msg); err != nil {
		logrus.WithError(err).WithField("to", recipientEmail).Error("failed to send verification email")
		return err
	}
	logrus.WithField("to", recipientEmail).Info("verification email sent")
	return nil
}

// BuildVerificationMessage renders the multipart/alternative message.
func BuildVerificationMessage(s SMTPSettings, recipientEmail, name, verifyLink string) []byte {
	from := fmt.Sprintf("%s <%s>", s.FromName, s.Username)
	boundary := "----=_VERIFY_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Please confirm your e-mail address by opening the link below:\n%s\n\n"+
			"If you did not create an account, you can ignore this email.\n",
		name, verifyLink,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Verify your account</title>
</head>
<body style="background:#f7f7f7;font-family:Arial,Helvetica,sans-serif;color:#222;">
  <div style="max-width:640px;margin:20px auto;background:#fff;padding:24px;border-radius:8px;">
    <h2>Verify your e-mail</h2>
    <p>Hi %s,</p>
    <p>Click the button below to confirm your e-mail address.</p>
    <a href="%s" target="_blank" style="display:inline-block;padding:12px 20px;background:#ff385c;color:#fff;text-decoration:none;border-radius:6px;">Verify my account</a>
    <p>If you did not create an account, you can ignore this email.</p>
  </div>
</body>
</html>`,
		html.EscapeString(name), html.EscapeString(verifyLink),
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString("Subject: Verify your account\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}

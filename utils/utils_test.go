package utils

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/rooms/3", SafeNext("/rooms/3", "/"))
	assert.Equal(t, "/", SafeNext("", "/"))
	assert.Equal(t, "/", SafeNext("https://evil.example", "/"))
	assert.Equal(t, "/", SafeNext("//evil.example", "/"))
	assert.Equal(t, "/", SafeNext(`/\evil.example`, "/"))
}

func TestSMTPMailer_MockWhenUnconfigured(t *testing.T) {
	m := NewSMTPMailer(SMTPSettings{})
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}
	require.NoError(t, m.SendVerification("a@example.com", "A", "http://x/users/verify/s"))
	assert.False(t, called)
}

func TestSMTPMailer_Sends(t *testing.T) {
	m := NewSMTPMailer(SMTPSettings{Host: "smtp.example.com", Port: "587", Username: "bot@example.com", Password: "pw", FromName: "Rooms"})
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}
	require.NoError(t, m.SendVerification("a@example.com", "Ann\r\n", "http://x/users/verify/s"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	body := string(gotMsg)
	assert.True(t, strings.HasPrefix(body, "From: Rooms <bot@example.com>\r\n"))
	assert.Contains(t, body, "http://x/users/verify/s")
	assert.Contains(t, body, "Hi Ann,")
}

package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Host: "smtp.example.com", From: "a@example.com"}.Enabled())
	assert.True(t, Config{Host: "smtp.example.com", Username: "u", Password: "p", From: "a@example.com"}.Enabled())
}

func TestMessage(t *testing.T) {
	msg := string(Message("diary@example.com", "alice@example.com", RegistrationSubject, RegistrationBody("Alice")))
	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "From: diary@example.com\r\n")
	assert.Contains(t, msg, "Subject: Registration Confirmation\r\n")
	assert.Contains(t, msg, "\r\n\r\nHello Alice. You have been successfully registered to MyFishingDiary. Welcome!\r\n")
}

func TestSendRejectsHeaderInjection(t *testing.T) {
	s := NewSMTPSender(Config{Host: "127.0.0.1", Port: 1})
	err := s.Send(context.Background(), "a@example.com\r\nBcc: x@example.com", "hi", "body")
	assert.EqualError(t, err, "invalid header value")
}

package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"fourwheeler-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOTPRendersMessage(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, true)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		assert.Nil(t, auth)
		return nil
	}

	require.NoError(t, m.SendOTP(context.Background(), "user@example.com", "123456", 5*time.Minute))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"user@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: "+otpSubject)
	assert.Contains(t, gotMsg, "<b>123456</b>")
	assert.Contains(t, gotMsg, "<b>5</b> minutes")
}

func TestSendOTPPropagatesFailure(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "apikey", Password: "x"}, true)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.SendOTP(context.Background(), "user@example.com", "123456", 5*time.Minute)
	assert.ErrorContains(t, err, "connection refused")
}

func TestSendOTPWithoutHost(t *testing.T) {
	dev := NewSMTPMailer(config.SMTPConfig{}, false)
	assert.NoError(t, dev.SendOTP(context.Background(), "user@example.com", "123456", 5*time.Minute))

	prod := NewSMTPMailer(config.SMTPConfig{}, true)
	assert.ErrorIs(t, prod.SendOTP(context.Background(), "user@example.com", "123456", 5*time.Minute), ErrNotConfigured)
}

// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/logger"

	"go.uber.org/zap"
)

const otpSubject = "OTP code to verify password recovery"

var (
	//go:embed templates/otp.html
	templates embed.FS

	otpTemplate = template.Must(template.New("otp.html").ParseFS(templates, "templates/otp.html"))

	ErrNotConfigured = errors.New("smtp host is not configured")
)

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	cfg        config.SMTPConfig
	production bool
	send       sendFunc
}

func NewSMTPMailer(cfg config.SMTPConfig, production bool) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg, production: production}
	m.send = m.deliver
	return m
}

// SendOTP emails a password-reset OTP. Without an SMTP host outside
// production the code is logged instead.
func (m *SMTPMailer) SendOTP(ctx context.Context, to, otp string, validFor time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	data := struct {
		OTP     string
		Minutes int
	}{OTP: otp, Minutes: int(validFor.Minutes())}
	if err := otpTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render otp template: %w", err)
	}

	if m.cfg.Host == "" {
		if m.production {
			return ErrNotConfigured
		}
		logger.Warn("SMTP not configured, logging OTP instead of sending",
			zap.String("email", to),
			zap.String("otp", otp),
			zap.String("event", "password_reset_otp_logged"),
		)
		return nil
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.User
	}
	if from == "" {
		return fmt.Errorf("smtp from address is not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" || m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	msg := buildHTMLMessage(from, to, otpSubject, body.String())
	if err := m.send(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}

	logger.Info("OTP email sent",
		zap.String("email", to),
		zap.String("event", "password_reset_otp_sent"),
	)
	return nil
}

func (m *SMTPMailer) deliver(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	if m.cfg.Port == 465 {
		return m.sendTLS(addr, auth, from, to, msg)
	}
	return smtp.SendMail(addr, auth, from, to, msg)
}

func (m *SMTPMailer) sendTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildHTMLMessage(from, to, subject, htmlBody string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s", from, to, subject, htmlBody)
}

// Package mailer gửi email qua SMTP (gomail).
package mailer

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// Message là một email HTML đơn giản
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender gửi email
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// SMTPConfig cấu hình SMTP
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer gửi mail qua gomail.Dialer
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer tạo mailer SMTP
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.FromName == "" {
		cfg.FromName = "GreenFuture"
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) Enabled() bool { return true }

// Send dựng message và gửi. gomail không nhận context nên chỉ kiểm tra ctx trước khi dial.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.build(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)
	return gm
}

// NoopMailer dùng khi chưa cấu hình SMTP, chỉ log
type NoopMailer struct{}

func (NoopMailer) Enabled() bool { return false }

func (NoopMailer) Send(_ context.Context, msg Message) error {
	logger.GetAppLogger().WithField("to", msg.To).WithField("subject", msg.Subject).Debug("SMTP not configured, email skipped")
	return nil
}

// ResetPasswordMessage là email chứa link đặt lại mật khẩu
func ResetPasswordMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset your GreenFuture password",
		HTML: fmt.Sprintf(`<p>We received a request to reset your password.</p>`+
			`<p><a href="%s">Reset password</a></p>`+
			`<p>This link expires in 1 hour. If you did not request it, ignore this email.</p>`, html.EscapeString(link)),
	}
}

// NotificationMessage là email tương ứng một notification
func NotificationMessage(to, title, body string) Message {
	return Message{
		To:      to,
		Subject: title,
		HTML:    fmt.Sprintf("<h3>%s</h3><p>%s</p>", html.EscapeString(title), html.EscapeString(body)),
	}
}

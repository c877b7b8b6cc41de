package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/chatterly/chat_service/internal/interfaces"
)

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, mail interfaces.Mail) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", mail.From),
		fmt.Sprintf("To: %s", mail.To),
		fmt.Sprintf("Subject: %s", mail.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		mail.HTML,
	}, "\r\n")

	return s.sendWithTimeout(ctx, mail.To, mail.From, []byte(msg))
}

func (s *SMTPMailer) sendWithTimeout(ctx context.Context, to, from string, msg []byte) error {
	addr := net.JoinHostPort(s.host, s.port)

	d := &net.Dialer{Timeout: 8 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	// one deadline for the whole exchange so nothing hangs the caller
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

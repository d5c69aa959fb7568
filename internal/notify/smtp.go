package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPDeliverer sends messages through an SMTP server. Port 465 uses
// implicit TLS; any other port goes through smtp.SendMail, which upgrades
// with STARTTLS when the server offers it.
type SMTPDeliverer struct {
	cfg  SMTPConfig
	send sendFunc
}

// NewSMTPDeliverer creates an SMTPDeliverer.
func NewSMTPDeliverer(cfg SMTPConfig) *SMTPDeliverer {
	d := &SMTPDeliverer{cfg: cfg}
	if cfg.Port == "465" {
		d.send = d.sendImplicitTLS
	} else {
		d.send = smtp.SendMail
	}
	return d
}

func (d *SMTPDeliverer) from() string {
	if d.cfg.From != "" {
		return d.cfg.From
	}
	return d.cfg.Username
}

func (d *SMTPDeliverer) auth() smtp.Auth {
	if d.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
}

// Deliver sends msg. net/smtp has no context support, so ctx is only
// checked before dialing.
func (d *SMTPDeliverer) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(d.cfg.Host, d.cfg.Port)
	if err := d.send(addr, d.auth(), d.from(), []string{msg.To}, d.compose(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func (d *SMTPDeliverer) compose(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", d.from())
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func (d *SMTPDeliverer) sendImplicitTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: d.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, d.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

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

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

// Package mail delivers the two account-lifecycle messages (verification and
// password reset links) plus ad-hoc notifications over SMTP. Whether a
// delivery failure aborts the calling operation is the caller's policy, not
// this package's.
package mail

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/expenso-dev/expenso/internal/config"
	"github.com/expenso-dev/expenso/internal/errors"
	"github.com/expenso-dev/expenso/internal/logger"
)

// Notifier is the contract the auth core and the reimbursement service
// depend on.
type Notifier interface {
	SendVerificationEmail(email, token string) error
	SendPasswordResetEmail(email, token string) error
	Send(recipientEmail, subject, body string) error
}

type Mailer struct {
	config      *config.Email
	frontendURL string
	auth        smtp.Auth
}

// New validates the SMTP configuration up front so a misconfigured deployment
// fails at startup instead of on the first delivery attempt.
func New(cfg *config.Email, frontendURL string) (*Mailer, error) {
	if cfg.SMTPServer == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mail: smtp_server, username and password are required")
	}
	if cfg.SMTPPort == 0 {
		return nil, fmt.Errorf("mail: smtp_port is required")
	}
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPServer)
	return &Mailer{config: cfg, frontendURL: frontendURL, auth: auth}, nil
}

func (m *Mailer) SendVerificationEmail(email, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`Welcome!

Please open the link below to verify your email address:

%s

This link will expire in 24 hours.
If you didn't create an account, you can safely ignore this email.`, link)

	return m.Send(email, "Verify your email address", body)
}

func (m *Mailer) SendPasswordResetEmail(email, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`Password Reset Request

You requested to reset your password. Open the link below to create a new one:

%s

This link will expire in 1 hour.
If you didn't request a password reset, you can safely ignore this email.`, link)

	return m.Send(email, "Reset your password", body)
}

// IsCorrect rejects syntactically invalid recipient addresses.
func (m *Mailer) IsCorrect(email string) error {
	_, err := mail.ParseAddress(email)
	if err != nil {
		return &errors.ErrorWithStatusCode{Message: err.Error(), StatusCode: 400}
	}
	return nil
}

func (m *Mailer) Send(recipientEmail, subject, body string) error {
	if err := m.IsCorrect(recipientEmail); err != nil {
		return err
	}

	msg := m.buildMessage(recipientEmail, subject, body)
	address := fmt.Sprintf("%s:%d", m.config.SMTPServer, m.config.SMTPPort)

	// Port 465 = implicit TLS, otherwise STARTTLS
	if m.config.SMTPPort == 465 {
		return m.sendImplicitTLS(address, recipientEmail, msg)
	}
	return m.sendSTARTTLS(address, recipientEmail, msg)
}

func (m *Mailer) timeout() time.Duration {
	timeout := time.Duration(m.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// sendImplicitTLS sends email over a connection that is TLS from the start (port 465).
func (m *Mailer) sendImplicitTLS(address, recipientEmail string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: m.config.SMTPServer}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: m.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	return m.sendOverConn(conn, recipientEmail, msg)
}

// sendSTARTTLS sends email by upgrading a plain connection to TLS (port 587).
func (m *Mailer) sendSTARTTLS(address, recipientEmail string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, m.timeout())
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.config.SMTPServer}
	if err = client.StartTLS(tlsConfig); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return m.sendViaClient(client, recipientEmail, msg)
}

// sendOverConn creates an SMTP client from an existing connection and sends the message.
func (m *Mailer) sendOverConn(conn net.Conn, recipientEmail string, msg []byte) error {
	client, err := smtp.NewClient(conn, m.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return m.sendViaClient(client, recipientEmail, msg)
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (m *Mailer) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(m.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}

	if err := client.Mail(m.config.Username); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(recipientEmail); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", recipientEmail, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	t := time.Now().UnixNano()
	pid := rand.Int63()
	return fmt.Sprintf("<%d.%d@%s>", t, pid, domain)
}

func (m *Mailer) buildMessage(recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", m.config.SenderName)

	msgID := generateMessageID(m.config.SMTPServer)
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, recipient, encodedSenderName, m.config.Username, encodedSubject, body,
	)
}

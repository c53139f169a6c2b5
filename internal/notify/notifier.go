package notify

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

const activationSubject = "Your AgriMarket account is active"

// Notifier delivers account notifications to farmers. Callers treat delivery
// as fire-and-forget: failures are logged, never retried.
type Notifier interface {
	SendActivationNotice(email, firstName string) error
}

// SMTPNotifier sends mail through a configured SMTP relay
type SMTPNotifier struct {
	host     string
	port     int
	from     string
	username string
	password string
}

func NewSMTPNotifier() *SMTPNotifier {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPNotifier{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		from:     os.Getenv("SMTP_FROM"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (n *SMTPNotifier) SendActivationNotice(email, firstName string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return err
	}
	if err := msg.To(email); err != nil {
		return err
	}
	msg.Subject(activationSubject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\nYour AgriMarket account has been activated. You can now log in and manage your products.\n\nThe AgriMarket team",
		firstName,
	))

	client, err := mail.NewClient(n.host,
		mail.WithPort(n.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(n.username),
		mail.WithPassword(n.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}

// LogNotifier writes notifications to the process log instead of sending
// mail. Used in development when no SMTP relay is configured.
type LogNotifier struct{}

func (LogNotifier) SendActivationNotice(email, firstName string) error {
	log.Printf("=== Activation notice (not sent) ===\nTo: %s\nSubject: %s\nHi %s, your account is active.\n====================================", email, activationSubject, firstName)
	return nil
}

// FromEnv picks the SMTP notifier when a relay is configured and falls back
// to log-only delivery otherwise
func FromEnv() Notifier {
	if os.Getenv("SMTP_HOST") == "" {
		log.Println("SMTP_HOST not set, activation emails will only be logged")
		return LogNotifier{}
	}
	return NewSMTPNotifier()
}

package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// Security selects how the SMTP connection is encrypted.
type Security int

const (
	// StartTLS upgrades a plain connection, usually on port 587.
	StartTLS Security = iota
	// ImplicitTLS speaks TLS from the first byte, usually on port 465.
	ImplicitTLS
)

func (s Security) String() string {
	if s == ImplicitTLS {
		return "ssl"
	}
	return "starttls"
}

// SMTPOptions configures one SMTP transport.
type SMTPOptions struct {
	Host     string
	Port     int
	Security Security
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// SMTPTransport sends mail through an authenticated SMTP relay.
type SMTPTransport struct {
	opts SMTPOptions
}

// NewSMTPTransport creates a transport. No connection is made until Verify or Send.
func NewSMTPTransport(opts SMTPOptions) *SMTPTransport {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &SMTPTransport{opts: opts}
}

// Name identifies the transport in logs.
func (t *SMTPTransport) Name() string {
	return fmt.Sprintf("%s:%d/%s", t.opts.Host, t.opts.Port, t.opts.Security)
}

func (t *SMTPTransport) client() (*gomail.Client, error) {
	options := []gomail.Option{
		gomail.WithPort(t.opts.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(t.opts.Username),
		gomail.WithPassword(t.opts.Password),
		gomail.WithTimeout(t.opts.Timeout),
	}
	if t.opts.Security == ImplicitTLS {
		options = append(options, gomail.WithSSLPort(false))
	} else {
		options = append(options, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	}

	c, err := gomail.NewClient(t.opts.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client for %s: %w", t.Name(), err)
	}
	return c, nil
}

// Verify connects and authenticates without sending anything.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("verify %s: %w", t.Name(), err)
	}
	return c.Close()
}

// Send delivers one HTML message.
func (t *SMTPTransport) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(t.opts.FromName, t.opts.Username); err != nil {
		return "", fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("set recipient %q: %w", to, err)
	}
	messageID := newMessageID(t.opts.Username)
	msg.SetGenHeader(gomail.HeaderMessageID, messageID)
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	c, err := t.client()
	if err != nil {
		return "", err
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("send via %s: %w", t.Name(), err)
	}
	return messageID, nil
}

func newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndexByte(from, '@'); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}

package mail

import (
	"context"
	"time"
)

// Mailer sends the account emails that are not alerts.
type Mailer struct {
	sender      Sender
	appName     string
	frontendURL string
	now         func() time.Time
}

// NewMailer creates a Mailer. A nil sender makes every send fail with ErrNoTransport.
func NewMailer(sender Sender, appName, frontendURL string) *Mailer {
	return &Mailer{sender: sender, appName: appName, frontendURL: frontendURL, now: time.Now}
}

// Welcome greets a newly registered user.
func (m *Mailer) Welcome(ctx context.Context, name, email string) (string, error) {
	if m.sender == nil {
		return "", ErrNoTransport
	}
	subject, body, err := Welcome(WelcomeData{AppName: m.appName, Name: name, DashboardURL: DashboardURL(m.frontendURL)})
	if err != nil {
		return "", err
	}
	return m.sender.Send(ctx, email, subject, body)
}

// Test sends the configuration test email.
func (m *Mailer) Test(ctx context.Context, email string) (string, error) {
	if m.sender == nil {
		return "", ErrNoTransport
	}
	subject, body, err := Test(TestData{AppName: m.appName, SentAt: m.now()})
	if err != nil {
		return "", err
	}
	return m.sender.Send(ctx, email, subject, body)
}

// Package mail renders the application's emails and delivers them over SMTP.
package mail

import (
	"context"
	"errors"
)

// ErrNoTransport is returned when no candidate transport could be verified.
var ErrNoTransport = errors.New("no working mail transport")

// Sender delivers a single HTML email and returns the message id it was sent with.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// Transport is a Sender that can check its connection settings up front.
type Transport interface {
	Sender
	Verify(ctx context.Context) error
	Name() string
}

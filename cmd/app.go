package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isdelr/fintrack-be/internal/config"
	"github.com/isdelr/fintrack-be/internal/database"
	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/monitoring"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/isdelr/fintrack-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// app holds the services shared by every command.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	users    *services.UserService
	expenses *services.ExpenseService
	events   *services.EventService
	seed     *services.SeedService
	hub      *websocket.Hub
	sender   mail.Sender
	mailer   *mail.Mailer
	checker  *monitoring.BalanceChecker
}

// newApp opens the database and wires services. A nil hub disables live pushes.
func newApp(ctx context.Context, cfg *config.Config, hub *websocket.Hub) (*app, error) {
	db, err := database.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		users:    services.NewUserService(db),
		expenses: services.NewExpenseService(db, cfg.Alerts.Location),
		events:   services.NewEventService(db),
		hub:      hub,
	}
	a.seed = services.NewSeedService(a.users, a.expenses)
	a.sender = selectSender(ctx, cfg.Mail)
	a.mailer = mail.NewMailer(a.sender, cfg.Mail.FromName, cfg.App.FrontendURL)

	threshold := decimal.NewFromFloat(cfg.Alerts.Threshold)
	var push monitoring.Notifier
	if hub != nil {
		push = hub
	}
	dispatcher := monitoring.NewDispatcher(a.users, a.sender, a.events, push, monitoring.DispatcherOptions{
		Threshold:   threshold,
		Location:    cfg.Alerts.Location,
		AppName:     cfg.Mail.FromName,
		FrontendURL: cfg.App.FrontendURL,
	})
	a.checker = monitoring.NewBalanceChecker(a.users, a.expenses, dispatcher, threshold, cfg.Alerts.Location)
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// selectSender probes the STARTTLS and implicit TLS relays and keeps the first
// that accepts the credentials. It returns nil when mail is unavailable.
func selectSender(ctx context.Context, cfg config.MailConfig) mail.Sender {
	if !cfg.HasCredentials() {
		log.Warn().Msg("EMAIL_USER/EMAIL_PASS not set, email delivery disabled")
		return nil
	}

	base := mail.SMTPOptions{
		Host:     cfg.Host,
		Username: cfg.Username,
		Password: cfg.Password,
		FromName: cfg.FromName,
		Timeout:  cfg.Timeout,
	}
	primary, fallback := base, base
	primary.Port, primary.Security = cfg.Port, mail.StartTLS
	fallback.Port, fallback.Security = cfg.AltPort, mail.ImplicitTLS

	probeCtx, cancel := context.WithTimeout(ctx, 2*cfg.Timeout+time.Second)
	defer cancel()
	t, err := mail.SelectTransport(probeCtx, mail.NewSMTPTransport(primary), mail.NewSMTPTransport(fallback))
	if err != nil {
		log.Error().Err(err).Str("host", cfg.Host).Msg("Email delivery disabled until restart")
		return nil
	}
	return t
}

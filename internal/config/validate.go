package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks the loaded configuration and resolves derived fields.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Alerts.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("alerts.threshold must be positive, got %v", c.Alerts.Threshold))
	}
	if _, err := cron.ParseStandard(c.Alerts.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("alerts.schedule: %w", err))
	}
	loc, err := time.LoadLocation(c.Alerts.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("alerts.timezone: %w", err))
	} else {
		c.Alerts.Location = loc
	}
	if c.Tasks.Workers <= 0 {
		errs = append(errs, errors.New("tasks.workers must be positive"))
	}
	if c.Tasks.QueueLen <= 0 {
		errs = append(errs, errors.New("tasks.queue_len must be positive"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

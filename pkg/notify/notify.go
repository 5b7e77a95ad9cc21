// Package notify selects and builds the outbound channel for contact notifications.
package notify

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/email"
)

// ErrNotConfigured is returned by the fallback notifier.
var ErrNotConfigured = errors.New("no notification channel configured")

// Unconfigured fails every delivery. It is used when no channel has credentials
// so the endpoint still validates input and reports a server error.
type Unconfigured struct{}

func (Unconfigured) Name() string { return "none" }

func (Unconfigured) Notify(context.Context, domain.Notification) error {
	return ErrNotConfigured
}

// New builds the notifier selected by cfg.Notifier.
func New(cfg *config.Config) (domain.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierTelegram:
		return NewTelegramNotifier(cfg.BotAPIURL, cfg.BotToken, cfg.ChatID, cfg.BotParseMode, cfg.DispatchTimeout), nil
	case config.NotifierSMTP:
		return email.NewEmailService(cfg), nil
	case config.NotifierNone:
		return Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("notify: unknown notifier %q", cfg.Notifier)
	}
}

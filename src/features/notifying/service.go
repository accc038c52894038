package notifying

import (
	"context"
	"log/slog"
	"time"

	"github.com/contre95/photoimport/src/features/config"
)

// Sender delivers one text message to one recipient.
type Sender interface {
	Name() string
	Send(ctx context.Context, recipient, message string) error
}

// Service sends operator alerts to the configured recipient. Delivery is
// best effort: failures are logged and never returned.
type Service struct {
	sender    Sender
	recipient string
	timeout   time.Duration
}

// NewService creates a notifier for a single recipient.
func NewService(sender Sender, cfg config.Notify) *Service {
	return &Service{
		sender:    sender,
		recipient: cfg.Recipient,
		timeout:   cfg.Timeout,
	}
}

// Notify sends message and swallows any delivery error.
func (s *Service) Notify(ctx context.Context, message string) {
	if s == nil || s.sender == nil {
		return
	}
	// Alerts are still sent while the run is shutting down.
	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Service.Notify: sender panicked", "sender", s.sender.Name(), "panic", r)
		}
	}()

	if err := s.sender.Send(ctx, s.recipient, message); err != nil {
		slog.Warn("Service.Notify: failed to deliver alert", "sender", s.sender.Name(), "error", err, "message", message)
		return
	}
	slog.Debug("Service.Notify: alert delivered", "sender", s.sender.Name(), "message", message)
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/config"
	"github.com/hochfrequenz/cycle-timer/internal/cycles"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	NotifyInfo NotificationType = iota
	NotifySuccess
	NotifyWarning
	NotifyError
)

// Notification represents a notification to be sent
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	CycleID string // Optional cycle reference
}

// Notifier is the interface for sending notifications
type Notifier interface {
	Send(n Notification) error
}

// ContextNotifier is a Notifier whose delivery can be cancelled
type ContextNotifier interface {
	Notifier
	SendContext(ctx context.Context, n Notification) error
}

// DeliveryTimeout bounds a single notification delivery
const DeliveryTimeout = 10 * time.Second

// Deliver sends n, handing ctx to notifiers that accept one
func Deliver(ctx context.Context, notifier Notifier, n Notification) error {
	if cn, ok := notifier.(ContextNotifier); ok {
		return cn.SendContext(ctx, n)
	}
	return notifier.Send(n)
}

// MultiNotifier sends to multiple notifiers
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier that sends to all provided notifiers
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Send(n Notification) error {
	return m.SendContext(context.Background(), n)
}

// SendContext delivers to every notifier and joins their errors
func (m *MultiNotifier) SendContext(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := Deliver(ctx, notifier, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NoopNotifier does nothing (for testing or disabled notifications)
type NoopNotifier struct{}

func (NoopNotifier) Send(n Notification) error { return nil }

// FromConfig builds the notifier described by cfg
func FromConfig(cfg config.NotificationsConfig) Notifier {
	var notifiers []Notifier
	if cfg.Desktop {
		notifiers = append(notifiers, NewDesktopNotifier(true))
	}
	if cfg.SlackWebhook != "" {
		notifiers = append(notifiers, NewSlackNotifier(cfg.SlackWebhook))
	}
	if len(notifiers) == 0 {
		return NoopNotifier{}
	}
	return NewMultiNotifier(notifiers...)
}

// ForChange builds the notification for a cycle transition. Creations are
// not announced.
func ForChange(ch cycles.Change) (Notification, bool) {
	c := ch.Cycle
	switch ch.Type {
	case cycles.ChangeFinished:
		return Notification{
			Title:   "Cycle finished",
			Message: fmt.Sprintf("%s (%d min) is done. Time for a break.", c.Task, c.MinutesAmount),
			Type:    NotifySuccess,
			CycleID: c.ID,
		}, true
	case cycles.ChangeInterrupted:
		return Notification{
			Title:   "Cycle interrupted",
			Message: fmt.Sprintf("%s was interrupted.", c.Task),
			Type:    NotifyWarning,
			CycleID: c.ID,
		}, true
	}
	return Notification{}, false
}

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// DesktopNotifier pops up a system notification through notify-send on
// linux and osascript on darwin
type DesktopNotifier struct {
	enabled bool
	goos    string
}

// NewDesktopNotifier creates a desktop notifier for the running OS
func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{enabled: enabled, goos: runtime.GOOS}
}

func (d *DesktopNotifier) Send(n Notification) error {
	return d.SendContext(context.Background(), n)
}

// SendContext runs the notification command, killing it when ctx is done
func (d *DesktopNotifier) SendContext(ctx context.Context, n Notification) error {
	if !d.enabled {
		return nil
	}
	name, args, ok := desktopCommand(d.goos, n)
	if !ok {
		return nil
	}
	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

func desktopCommand(goos string, n Notification) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q subtitle %q", n.Message, n.Title, "cycle-timer")
		if sound := soundForType(n.Type); sound != "" {
			script += fmt.Sprintf(" sound name %q", sound)
		}
		return "osascript", []string{"-e", script}, true
	case "linux":
		return "notify-send", []string{
			"--app-name", "cycle-timer",
			"--urgency", urgencyForType(n.Type),
			"--icon", iconForType(n.Type),
			n.Title, n.Message,
		}, true
	}
	return "", nil, false
}

// urgencyForType maps a notification type to a notify-send urgency. A
// finished cycle stays on screen until dismissed because it announces a
// break.
func urgencyForType(t NotificationType) string {
	switch t {
	case NotifySuccess, NotifyError:
		return "critical"
	case NotifyWarning:
		return "normal"
	default:
		return "low"
	}
}

// iconForType returns a freedesktop icon name for the notification type
func iconForType(t NotificationType) string {
	switch t {
	case NotifySuccess:
		return "alarm-symbolic"
	case NotifyWarning:
		return "media-playback-stop"
	case NotifyError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}

func soundForType(t NotificationType) string {
	switch t {
	case NotifySuccess:
		return "Glass"
	case NotifyWarning:
		return "Basso"
	}
	return ""
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/config"
	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

func TestSlackNotifier_Send(t *testing.T) {
	var got SlackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	err := notifier.Send(Notification{
		Title:   "Cycle finished",
		Message: "Write report is done",
		Type:    NotifySuccess,
		CycleID: "abc",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got.Text != "Cycle finished" {
		t.Errorf("Text = %q", got.Text)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Title != "abc" || got.Attachments[0].Color != "good" {
		t.Errorf("Attachments = %+v", got.Attachments)
	}
}

func TestSlackNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if err := NewSlackNotifier(server.URL).Send(Notification{Title: "x"}); err == nil {
		t.Error("Send() = nil, want error for 403")
	}
}

func TestSlackNotifier_Disabled(t *testing.T) {
	if err := NewSlackNotifier("").Send(Notification{Title: "x"}); err != nil {
		t.Errorf("Send() with empty webhook = %v, want nil", err)
	}
}

func TestNotificationTypeColors(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotifySuccess, "good"},
		{NotifyWarning, "warning"},
		{NotifyError, "danger"},
		{NotifyInfo, "#439FE0"},
	}

	for _, tt := range tests {
		got := SlackColor(tt.typ)
		if got != tt.want {
			t.Errorf("SlackColor(%v) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestMultiNotifier(t *testing.T) {
	var called []string

	mock1 := &mockNotifier{name: "mock1", calls: &called, err: errors.New("boom")}
	mock2 := &mockNotifier{name: "mock2", calls: &called}

	multi := NewMultiNotifier(mock1, mock2)
	err := multi.Send(Notification{Title: "Test"})

	if len(called) != 2 {
		t.Errorf("Expected 2 calls, got %d", len(called))
	}
	if err == nil || err.Error() != "boom" {
		t.Errorf("Send() error = %v, want boom", err)
	}
}

func TestFromConfig(t *testing.T) {
	if _, ok := FromConfig(config.NotificationsConfig{}).(NoopNotifier); !ok {
		t.Error("FromConfig with nothing enabled should return NoopNotifier")
	}
	if _, ok := FromConfig(config.NotificationsConfig{SlackWebhook: "http://x"}).(*MultiNotifier); !ok {
		t.Error("FromConfig with webhook should return *MultiNotifier")
	}
}

func TestForChange(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := domain.Cycle{ID: "a", Task: "Write report", MinutesAmount: 25, StartDate: now}

	if _, ok := ForChange(cycles.Change{Type: cycles.ChangeCreated, Cycle: c}); ok {
		t.Error("creation should not notify")
	}

	n, ok := ForChange(cycles.Change{Type: cycles.ChangeFinished, Cycle: c})
	if !ok || n.Type != NotifySuccess || n.CycleID != "a" {
		t.Errorf("finished notification = %+v, %v", n, ok)
	}

	n, ok = ForChange(cycles.Change{Type: cycles.ChangeInterrupted, Cycle: c})
	if !ok || n.Type != NotifyWarning {
		t.Errorf("interrupted notification = %+v, %v", n, ok)
	}
}

func TestDeliver_PassesContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	multi := NewMultiNotifier(NewSlackNotifier(server.URL))
	if err := Deliver(ctx, multi, Notification{Title: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Deliver() with cancelled ctx = %v, want context.Canceled", err)
	}
	if err := Deliver(context.Background(), multi, Notification{Title: "x"}); err != nil {
		t.Errorf("Deliver() = %v, want nil", err)
	}
}

func TestDeliver_PlainNotifier(t *testing.T) {
	var called []string
	mock := &mockNotifier{name: "plain", calls: &called}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Deliver(ctx, mock, Notification{Title: "x"}); err != nil {
		t.Fatalf("Deliver() = %v", err)
	}
	if len(called) != 1 {
		t.Errorf("plain notifier called %d times, want 1", len(called))
	}
}

func TestDesktopCommand(t *testing.T) {
	finished := Notification{Title: "Cycle finished", Message: "Write report is done", Type: NotifySuccess}
	interrupted := Notification{Title: "Cycle interrupted", Message: "Write report was interrupted.", Type: NotifyWarning}

	name, args, ok := desktopCommand("linux", finished)
	if !ok || name != "notify-send" {
		t.Fatalf("linux command = %q, %v", name, ok)
	}
	if !containsPair(args, "--urgency", "critical") {
		t.Errorf("finished args = %q, want critical urgency", args)
	}
	if args[len(args)-2] != finished.Title || args[len(args)-1] != finished.Message {
		t.Errorf("finished args = %q, want title and message last", args)
	}

	_, args, _ = desktopCommand("linux", interrupted)
	if !containsPair(args, "--urgency", "normal") {
		t.Errorf("interrupted args = %q, want normal urgency", args)
	}

	name, args, ok = desktopCommand("darwin", finished)
	if !ok || name != "osascript" || len(args) != 2 {
		t.Fatalf("darwin command = %q %q, %v", name, args, ok)
	}
	if !strings.Contains(args[1], `sound name "Glass"`) {
		t.Errorf("darwin script = %s, want finish sound", args[1])
	}

	if _, _, ok := desktopCommand("windows", finished); ok {
		t.Error("windows should have no desktop command")
	}
}

func TestDesktopNotifier_Disabled(t *testing.T) {
	if err := NewDesktopNotifier(false).Send(Notification{Title: "x"}); err != nil {
		t.Errorf("disabled Send() = %v, want nil", err)
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

type mockNotifier struct {
	name  string
	calls *[]string
	err   error
}

func (m *mockNotifier) Send(n Notification) error {
	*m.calls = append(*m.calls, m.name)
	return m.err
}

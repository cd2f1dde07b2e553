package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = "/org/freedesktop/Notifications"
	notificationsIface = "org.freedesktop.Notifications"
)

// Notification mirrors the arguments of org.freedesktop.Notifications.Notify.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string
	Hints         map[string]godbus.Variant
	ExpireTimeout int32
}

// Sender delivers a notification and returns the server's id for it.
type Sender func(ctx context.Context, n Notification) (uint32, error)

// BusSender sends notifications over conn.
func BusSender(conn *godbus.Conn) Sender {
	return func(ctx context.Context, n Notification) (uint32, error) {
		var id uint32
		obj := conn.Object(notificationsDest, notificationsPath)
		call := obj.CallWithContext(ctx, notificationsIface+".Notify", 0,
			n.AppName, n.ReplacesID, n.AppIcon, n.Summary, n.Body,
			n.Actions, n.Hints, n.ExpireTimeout)
		if call.Err != nil {
			return 0, call.Err
		}
		if err := call.Store(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
}

// Notifier shows desktop notifications about folderpop's own actions. It
// waits for the server's reply up to Timeout and drops repeats of the same
// summary within MinInterval.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	send   Sender

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	timeout        time.Duration
}

// NewNotifier creates a Notifier. A nil send connects to the session bus
// on first use.
func NewNotifier(send Sender, timeout time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Notifier{
		logger:         logger,
		send:           send,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    2 * time.Second,
		timeout:        timeout,
	}
}

// Notify shows a notification. Failures are logged, never returned.
func (n *Notifier) Notify(title, message string, isError bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	key := title + "\x00" + message
	if last, ok := n.lastNotifyTime[key]; ok && time.Since(last) < n.minInterval {
		n.logger.Debug("notification rate-limited", "summary", title)
		return
	}
	n.lastNotifyTime[key] = time.Now()

	if n.send == nil {
		conn, err := godbus.SessionBus()
		if err != nil {
			n.logger.Warn("notification skipped: no session bus", "summary", title, "error", err)
			return
		}
		n.send = BusSender(conn)
	}

	urgency := byte(0)
	icon := "dialog-information"
	if isError {
		urgency = 2
		icon = "dialog-error"
	}
	note := Notification{
		AppName: "folderpop",
		AppIcon: icon,
		Summary: title,
		Body:    message,
		Actions: []string{},
		Hints: map[string]godbus.Variant{
			"urgency":       godbus.MakeVariant(urgency),
			"transient":     godbus.MakeVariant(true),
			"desktop-entry": godbus.MakeVariant("folderpop"),
		},
		ExpireTimeout: 5000,
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	id, err := n.send(ctx, note)
	if err != nil {
		n.logger.Warn("notification failed", "summary", title, "error", fmt.Errorf("notify: %w", err))
		return
	}
	n.logger.Debug("notification sent", "id", id, "summary", title, "error_level", isError)
}

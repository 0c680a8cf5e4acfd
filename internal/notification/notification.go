// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/logger"
)

// AppName is the title of every notification.
const AppName = "Asistente jurídico"

// previewWidth bounds the reply excerpt shown in a notification.
const previewWidth = 80

type notifyFunc func(title, message string, icon any) error

var (
	mu       sync.Mutex
	notifier notifyFunc = beeep.Notify
)

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores the beeep notifier.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)

	mu.Lock()
	fn := notifier
	mu.Unlock()

	// Empty icon lets beeep pick the platform default.
	if err := fn(title, message, ""); err != nil {
		log.Warn("failed to send notification", "error", err)
		return err
	}
	return nil
}

// ReplyArrived announces an assistant reply received while the panel was
// collapsed. The message is a short preview of the reply.
func ReplyArrived(reply string) error {
	preview := chat.Preview(reply, previewWidth)
	if preview == "" {
		preview = "Nueva respuesta"
	}
	return Send(AppName, preview)
}

// Package clipboard copies text to and from the system clipboard.
package clipboard

import (
	"sync"

	"golang.design/x/clipboard"

	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/logger"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

var (
	initOnce sync.Once
	initErr  error
)

// Init connects to the system clipboard once. Later calls return the
// first result. Headless sessions get a KindIO error.
func Init() error {
	initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
			initErr = pcerrors.E(pcerrors.Op("clipboard.Init"), pcerrors.KindIO, "clipboard unavailable", err)
			return
		}
		logger.WithComponent("clipboard").Debug("initialized")
	})
	return initErr
}

// System is the process clipboard.
type System struct{}

func (System) WriteText(text string) error {
	return WriteText(text)
}

// WriteText replaces the clipboard contents with text.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	logger.WithComponent("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

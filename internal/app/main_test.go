package app

import (
	"os"
	"testing"

	"github.com/zhubert/chatmodal/internal/logger"
	"github.com/zhubert/chatmodal/internal/notification"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)
	notification.SetNotifier(func(string, string, any) error { return nil })

	code := m.Run()

	notification.ResetNotifier()
	logger.Reset()
	os.Exit(code)
}

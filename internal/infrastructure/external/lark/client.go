package lark

import (
	"github.com/garyjia/default-desk/internal/application/port"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"go.uber.org/zap"
)

// Config holds Lark application credentials and the reviewer chat
type Config struct {
	AppID     string
	AppSecret string
	ChatID    string // group chat that receives review notices
}

// Enabled reports whether enough is configured to send messages
func (c Config) Enabled() bool {
	return c.AppID != "" && c.AppSecret != "" && c.ChatID != ""
}

// NewSDKClient creates the Lark SDK client
func NewSDKClient(cfg Config) *lark.Client {
	return lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)
}

// NewNotifierFromConfig returns a Lark notifier, or a no-op notifier when Lark is not configured
func NewNotifierFromConfig(cfg Config, logger *zap.Logger) port.Notifier {
	if !cfg.Enabled() {
		logger.Info("Lark not configured, reviewer notifications disabled")
		return NopNotifier{}
	}

	client := NewSDKClient(cfg)
	return NewNotifier(client.Im.Message, cfg.ChatID, logger)
}

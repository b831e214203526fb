package lark

import (
	"context"
	"encoding/json"
	"fmt"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkIm "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

// MessageCreator is the part of the SDK message service the notifier uses
type MessageCreator interface {
	Create(ctx context.Context, req *larkIm.CreateMessageReq, options ...larkcore.RequestOptionFunc) (*larkIm.CreateMessageResp, error)
}

// Notifier implements port.Notifier by posting text messages to a group chat
type Notifier struct {
	messages MessageCreator
	chatID   string
	logger   *zap.Logger
}

// NewNotifier creates a Lark notifier for chatID
func NewNotifier(messages MessageCreator, chatID string, logger *zap.Logger) *Notifier {
	return &Notifier{
		messages: messages,
		chatID:   chatID,
		logger:   logger,
	}
}

// Notify sends text to the reviewer chat
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("content cannot be empty")
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to marshal message content: %w", err)
	}

	req := larkIm.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkIm.NewCreateMessageReqBodyBuilder().
			ReceiveId(n.chatID).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := n.messages.Create(ctx, req)
	if err != nil {
		n.logger.Error("Failed to send message",
			zap.String("chat_id", n.chatID),
			zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		n.logger.Error("API returned failure",
			zap.String("chat_id", n.chatID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}

	n.logger.Info("Message sent successfully",
		zap.String("message_id", messageID),
		zap.String("chat_id", n.chatID))

	return nil
}

// NopNotifier discards notices
type NopNotifier struct{}

// Notify implements port.Notifier
func (NopNotifier) Notify(ctx context.Context, text string) error {
	return nil
}

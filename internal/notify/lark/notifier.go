// Package lark sends a Lark chat message for every high-priority routing
// decision triage makes. Grounded on the teacher's internal/lark/client.go
// (SDK client construction) and message_api.go (Im.Message.Create usage),
// trimmed to outbound notification only — no event subscription, form
// parsing, or attachment handling, since this pipeline never receives Lark
// input.
package lark

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkIm "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

// Config holds the Lark app credentials and the target chat to notify.
type Config struct {
	AppID     string
	AppSecret string
	ChatID    string // receive_id of the group/chat to post to
}

// Enabled reports whether notification is configured. An empty ChatID
// disables the notifier without requiring a separate feature flag.
func (c Config) Enabled() bool {
	return c.AppID != "" && c.AppSecret != "" && c.ChatID != ""
}

// Notifier posts a text message to a configured Lark chat. It implements
// triage.Notifier.
type Notifier struct {
	client *lark.Client
	chatID string
	log    *zap.Logger
}

// New builds a Notifier from cfg. If cfg is not Enabled, New still returns a
// usable Notifier whose Notify is a no-op, so callers never need to branch
// on configuration.
func New(cfg Config, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled() {
		return &Notifier{log: log}
	}
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)
	return &Notifier{client: client, chatID: cfg.ChatID, log: log}
}

// Notify posts e as a plain-text chat message. A nil client (notifier
// disabled) is a silent no-op.
func (n *Notifier) Notify(ctx context.Context, e domain.ExceptionRecord) error {
	if n.client == nil {
		return nil
	}

	text := fmt.Sprintf(
		"[%s] %s invoice %s ($%s) routed to %s — %s",
		e.Priority, e.ExceptionID, e.InvoiceID, amountText(e), e.Queue, e.RoutingReason,
	)
	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encoding notification content: %w", err)
	}

	req := larkIm.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkIm.NewCreateMessageReqBodyBuilder().
			ReceiveId(n.chatID).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := n.client.Im.Message.Create(ctx, req)
	if err != nil {
		n.log.Error("failed to send lark notification", zap.String("exception_id", e.ExceptionID), zap.Error(err))
		return fmt.Errorf("sending lark message: %w", err)
	}
	if !resp.Success() {
		n.log.Error("lark API returned failure",
			zap.String("exception_id", e.ExceptionID), zap.Int("code", resp.Code), zap.String("msg", resp.Msg))
		return fmt.Errorf("lark API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}
	return nil
}

func amountText(e domain.ExceptionRecord) string {
	if e.Amount == nil {
		return "N/A"
	}
	return e.Amount.StringFixed(2)
}

package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/infra/httpclient"
)

const defaultSendTimeout = 5 * time.Second

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts moderation events to the moderators' chat.
type Notifier struct {
	api    sender
	chatID int64
}

// NewNotifier builds a bot whose HTTP calls are capped at sendTimeout
// (5s when zero).
func NewNotifier(token string, chatID int64, sendTimeout time.Duration) (*Notifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("moderators chat id is required")
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}

	api, err := tgbotapi.NewBotAPIWithClient(strings.TrimSpace(token), tgbotapi.APIEndpoint, httpclient.New(sendTimeout))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Notifier{api: api, chatID: chatID}, nil
}

// SendText returns when the message is sent or ctx is done, whichever comes
// first. The bot API has no context support, so an abandoned send finishes
// in the background under the client timeout.
func (n *Notifier) SendText(ctx context.Context, text string) error {
	if n == nil || n.api == nil {
		return fmt.Errorf("telegram notifier is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	done := make(chan error, 1)
	go func() {
		_, err := n.api.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send telegram message: %w", ctx.Err())
	}
}

func (n *Notifier) NotifySubmission(ctx context.Context, kind enums.EntityKind, id int64, summary string) error {
	text := fmt.Sprintf("New %s #%d awaiting review", kindLabel(kind), id)
	if s := strings.TrimSpace(summary); s != "" {
		text += "\n" + s
	}
	return n.SendText(ctx, text)
}

func (n *Notifier) NotifyDecision(ctx context.Context, kind enums.EntityKind, id int64, status enums.ModerationStatus) error {
	return n.SendText(ctx, fmt.Sprintf("%s #%d is now %s", kindLabel(kind), id, status))
}

func kindLabel(kind enums.EntityKind) string {
	switch kind {
	case enums.EntityKindAdRequest:
		return "advertisement request"
	case enums.EntityKindSeller:
		return "seller verification"
	case enums.EntityKindPet:
		return "pet listing"
	case enums.EntityKindReport:
		return "report"
	default:
		return string(kind)
	}
}

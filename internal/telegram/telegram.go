package telegramBot

import (
	"context"
	"fmt"
	"log/slog"

	"eventieBot/internal/assistant"
	"eventieBot/internal/config"
	"eventieBot/internal/models/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Assistant runs one dialogue turn.
type Assistant interface {
	HandleTurn(ctx context.Context, sess *assistant.Session, input string) (assistant.TurnResult, error)
}

// EventStore exposes the store statistics the bot reports.
type EventStore interface {
	Stats() domain.StoreStats
}

// Bot serves the Eventie assistant over Telegram. Each chat gets its
// own dialogue session.
type Bot struct {
	log             *slog.Logger
	cfg             *config.Config
	tgbot           *tgbotapi.BotAPI
	controller      Assistant
	sessions        *assistant.SessionManager
	store           EventStore
	shutdownChannel chan struct{}
}

func NewBot(log *slog.Logger, cfg *config.Config, controller Assistant, sessions *assistant.SessionManager, store EventStore) (*Bot, error) {
	op := "telegramBot.NewBot()"

	tgbot, err := tgbotapi.NewBotAPI(cfg.BotConfig.TgbotApiToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("authorized on telegram account", slog.String("account", tgbot.Self.UserName))

	return &Bot{
		log:             log,
		cfg:             cfg,
		tgbot:           tgbot,
		controller:      controller,
		sessions:        sessions,
		store:           store,
		shutdownChannel: make(chan struct{}),
	}, nil
}

// Start runs the update loop until shutdown.
func (bot *Bot) Start(timeout int) {
	op := "bot.Start()"
	log := bot.log.With(
		slog.String("op", op),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout

	updates := bot.tgbot.GetUpdatesChan(u)
	log.Info("telegram bot started")

	for {
		select {
		case <-bot.shutdownChannel:
			return
		case update, ok := <-updates:
			if !ok {
				log.Error("updates channel closed")
				return
			}
			if update.Message == nil {
				continue
			}

			go func(update tgbotapi.Update) {
				ctx, cancel := context.WithTimeout(context.Background(), bot.cfg.BotConfig.AI.GetTimeout())
				defer cancel()

				var err error
				if update.Message.IsCommand() {
					err = bot.commandHandler(ctx, &update)
				} else {
					err = bot.messageHandler(ctx, &update)
				}
				if err != nil {
					log.Error("update handling failed",
						slog.String("user name", update.Message.From.UserName),
						slog.String("error", err.Error()),
					)
				}
			}(update)
		}
	}
}

func (bot *Bot) isAdmin(msg *tgbotapi.Message) (bool, error) {
	if msg.From == nil {
		return false, fmt.Errorf("message has no sender")
	}
	for _, admin := range bot.cfg.BotConfig.Admins {
		if admin == msg.From.UserName {
			return true, nil
		}
	}
	return false, nil
}

func (bot *Bot) sendReplyMessage(inputMsg *tgbotapi.Message, replyText string) error {
	op := "bot.sendReplyMessage()"

	msg := tgbotapi.NewMessage(inputMsg.Chat.ID, replyText)
	msg.ReplyToMessageID = inputMsg.MessageID

	_, err := bot.tgbot.Send(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Shutdown stops the update loop.
func (bot *Bot) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit telegram bot: %w", ctx.Err())
	default:
		close(bot.shutdownChannel)
		bot.tgbot.StopReceivingUpdates()
		return nil
	}
}

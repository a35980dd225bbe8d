package telegramBot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"log/slog"

	"eventieBot/internal/assistant"
	"eventieBot/internal/export"
	"eventieBot/internal/utils/logger/sl"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func sessionID(msg *tgbotapi.Message) string {
	return strconv.FormatInt(msg.Chat.ID, 10)
}

func (bot *Bot) commandHandler(ctx context.Context, update *tgbotapi.Update) error {
	op := "bot.commandHandler"
	log := bot.log.With(
		slog.String("op", op),
	)

	msg := update.Message

	switch msg.Command() {
	case "start":
		err := bot.sendReplyMessage(msg, assistant.WelcomeMessage())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

	case "reset":
		bot.sessions.Reset(sessionID(msg))

		log.Debug("session reset",
			slog.String("user name", msg.From.UserName),
		)

		replyText := "Preferences cleared. Tell me what kind of library events you are looking for!"
		err := bot.sendReplyMessage(msg, replyText)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

	case "stats":
		isAdmin, err := bot.isAdmin(msg)

		log.Debug("stats",
			slog.String("user name", msg.From.UserName),
			slog.String("is admin", strconv.FormatBool(isAdmin)),
		)

		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !isAdmin {
			return fmt.Errorf("user is not admin")
		}

		stats := bot.store.Stats()
		replyText := fmt.Sprintf("📊 Event store\nTotal: %d\nUnique: %d\nDuplicates skipped: %d",
			stats.Total, stats.Unique, stats.Duplicates)
		err = bot.sendReplyMessage(msg, replyText)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

	case "model":
		isAdmin, err := bot.isAdmin(msg)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !isAdmin {
			return fmt.Errorf("user is not admin")
		}

		modelName := strings.TrimSpace(msg.CommandArguments())
		if modelName == "" {
			replyText := fmt.Sprintf("Current model: %s", bot.cfg.BotConfig.AI.ModelName)
			if err := bot.sendReplyMessage(msg, replyText); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}

		bot.cfg.BotConfig.AI.ModelName = modelName
		if err := bot.cfg.Write(); err != nil {
			log.Error("cannot persist model switch", sl.Err(err))
		}

		log.Info("model switched",
			slog.String("user name", msg.From.UserName),
			slog.String("model", modelName),
		)

		replyText := fmt.Sprintf("Model switched to %s", modelName)
		if err := bot.sendReplyMessage(msg, replyText); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

	case "export":
		sess := bot.sessions.Get(sessionID(msg))
		pool := sess.PoolSnapshot()

		if len(pool) == 0 {
			replyText := "Nothing to export yet. Ask me for event recommendations first!"
			err := bot.sendReplyMessage(msg, replyText)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}

		ics := export.GenerateICS(pool)
		doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
			Name:  "library_events.ics",
			Bytes: []byte(ics),
		})
		_, err := bot.tgbot.Send(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Debug("calendar exported",
			slog.String("user name", msg.From.UserName),
			slog.Int("events", len(pool)),
		)

	default:
		replyText := "I don't know this command"
		err := bot.sendReplyMessage(msg, replyText)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (bot *Bot) messageHandler(ctx context.Context, update *tgbotapi.Update) error {
	op := "bot.messageHandler"
	log := bot.log.With(
		slog.String("op", op),
	)

	msg := update.Message
	sess := bot.sessions.Get(sessionID(msg))

	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	_, _ = bot.tgbot.Request(typing)

	result, err := bot.controller.HandleTurn(ctx, sess, msg.Text)
	if err != nil {
		replyText := "Sorry, I could not process that. Please try rephrasing your request."
		if e := bot.sendReplyMessage(msg, replyText); e != nil {
			return fmt.Errorf("%s: %w", op, e)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("turn processed",
		slog.String("user name", msg.From.UserName),
		slog.String("state", string(result.State)),
		slog.Int("recommendations", len(result.Recommendations)),
	)

	replyText := result.Reply
	if len(result.Recommendations) > 0 {
		replyText = fmt.Sprintf("%s\n\n%s", result.Reply, assistant.FormatRecommendations(result.Recommendations))
	}

	err = bot.sendReplyMessage(msg, replyText)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"countdown-bot/internal/service"
)

const helpText = "🤖 <b>Countdown bot commands</b>\n\n" +
	"🗓️ <b>Countdown</b>\n" +
	"<code>/set YYYY-MM-DD HH:MM event name</code>\n" +
	"Start a new countdown (replaces any existing one).\n\n" +
	"<code>/check</code>\n" +
	"Show the current countdown settings.\n\n" +
	"<code>/stop</code>\n" +
	"Stop and reset the countdown.\n\n" +
	"⏰ <b>Reminder</b>\n" +
	"<code>/remind &lt;number&gt;&lt;s|m|h&gt; message</code>\n" +
	"Get pinged after the given delay, e.g. <code>/remind 10m prepare for the meeting</code>.\n\n" +
	"🙋 <code>/help</code> shows this message."

// Sender adapts the Telegram API to the service.Sender interface. All bot
// messages are sent in HTML parse mode.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := s.api.Send(msg)
	return err
}

// Bot aggregates the Telegram API with the countdown and reminder services.
type Bot struct {
	api          *tgbotapi.BotAPI
	sender       *Sender
	countdownSvc *service.CountdownService
	reminderSvc  *service.ReminderService
	log          *zap.Logger
}

func New(api *tgbotapi.BotAPI, sender *Sender, countdownSvc *service.CountdownService, reminderSvc *service.ReminderService, log *zap.Logger) *Bot {
	return &Bot{
		api:          api,
		sender:       sender,
		countdownSvc: countdownSvc,
		reminderSvc:  reminderSvc,
		log:          log,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		msg := update.Message
		b.log.Info("command received",
			zap.String("command", msg.Command()), zap.Int64("chat_id", msg.Chat.ID))
		if err := b.handleCommand(ctx, msg); err != nil {
			b.log.Warn("handle command", zap.String("command", msg.Command()), zap.Error(err))
		}
	}

	return nil
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "set":
		return b.handleSet(ctx, msg)
	case "check":
		return b.handleCheck(ctx, msg)
	case "stop":
		return b.handleStop(ctx, msg)
	case "remind":
		return b.handleRemind(ctx, msg)
	case "help":
		return b.reply(msg.Chat.ID, helpText)
	default:
		return b.reply(msg.Chat.ID, "Unknown command. See /help for the list.")
	}
}

func (b *Bot) handleSet(ctx context.Context, msg *tgbotapi.Message) error {
	date, clock, name, err := parseSetArgs(msg.CommandArguments())
	if err != nil {
		return b.reply(msg.Chat.ID,
			"Usage: <code>/set YYYY-MM-DD HH:MM event name</code>\n"+
				"Example: <code>/set 2026-12-25 08:00 Christmas</code>")
	}

	cd, err := b.countdownSvc.Set(ctx, service.SetInput{
		TargetDate: date,
		SendTime:   clock,
		EventName:  name,
		ChannelID:  msg.Chat.ID,
	})
	switch {
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidTime),
		errors.Is(err, service.ErrEmptyEventName):
		return b.reply(msg.Chat.ID,
			"The date or time format is wrong.\n"+
				"Use <code>YYYY-MM-DD</code> for the date and <code>HH:MM</code> (24h) for the time.")
	case err != nil:
		b.log.Error("save countdown", zap.Error(err))
		return b.reply(msg.Chat.ID, "Could not save the countdown. Please try again later.")
	}

	return b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Countdown set!\n"+
			"<b>Event:</b> %s\n"+
			"<b>Target date:</b> %s\n"+
			"<b>Daily notification at:</b> %s",
		html.EscapeString(cd.EventName), cd.TargetDate, cd.SendTime))
}

func (b *Bot) handleCheck(ctx context.Context, msg *tgbotapi.Message) error {
	cd, err := b.countdownSvc.Current(ctx)
	if err != nil {
		b.log.Error("load countdown", zap.Error(err))
		return b.reply(msg.Chat.ID, "Could not read the countdown settings. Please try again later.")
	}
	if cd == nil {
		return b.reply(msg.Chat.ID, "No countdown is currently set.")
	}

	return b.reply(msg.Chat.ID, fmt.Sprintf(
		"🗓️ Current countdown:\n"+
			"<b>Event:</b> %s\n"+
			"<b>Target date:</b> %s\n"+
			"<b>Daily notification at:</b> %s\n"+
			"<b>Channel:</b> %d\n\n"+
			"💬 %s",
		html.EscapeString(cd.EventName), cd.TargetDate, cd.SendTime, cd.ChannelID,
		b.countdownSvc.RandomQuote()))
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	cleared, err := b.countdownSvc.Stop(ctx)
	if err != nil {
		b.log.Error("stop countdown", zap.Error(err))
		return b.reply(msg.Chat.ID, "Could not stop the countdown. Please try again later.")
	}
	if !cleared {
		return b.reply(msg.Chat.ID, "No countdown is currently set.")
	}
	return b.reply(msg.Chat.ID, "✅ Countdown stopped, settings were reset.")
}

func (b *Bot) handleRemind(ctx context.Context, msg *tgbotapi.Message) error {
	token, message, err := parseRemindArgs(msg.CommandArguments())
	if err != nil {
		return b.reply(msg.Chat.ID,
			"Usage: <code>/remind &lt;number&gt;&lt;s|m|h&gt; message</code>\n"+
				"Example: <code>/remind 10m prepare for the meeting</code>")
	}

	delay, err := service.ParseDelay(token)
	if errors.Is(err, service.ErrInvalidDelay) {
		return b.reply(msg.Chat.ID,
			"The delay is invalid. Use a positive number with <code>s</code> (seconds), "+
				"<code>m</code> (minutes) or <code>h</code> (hours), e.g. <code>10s</code>, <code>5m</code>, <code>1h</code>.")
	}
	if err != nil {
		return err
	}

	if err := b.reply(msg.Chat.ID, fmt.Sprintf(
		"Got it! I'll remind you about «%s» in <b>%s</b>.",
		html.EscapeString(message), token)); err != nil {
		return err
	}

	b.reminderSvc.Schedule(ctx, msg.Chat.ID, mention(msg.From), message, delay)
	return nil
}

func (b *Bot) reply(chatID int64, text string) error {
	return b.sender.SendMessage(chatID, text)
}

// mention builds a user-facing handle for the reminder ping.
func mention(from *tgbotapi.User) string {
	if from == nil {
		return "you"
	}
	if from.UserName != "" {
		return "@" + from.UserName
	}
	return from.FirstName
}

// parseSetArgs splits "YYYY-MM-DD HH:MM event name..." into its parts.
func parseSetArgs(args string) (date, clock, name string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", "", "", fmt.Errorf("expected date, time and event name")
	}
	return fields[0], fields[1], strings.Join(fields[2:], " "), nil
}

// parseRemindArgs splits "<delay> message..." into delay token and message.
func parseRemindArgs(args string) (token, message string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", "", fmt.Errorf("expected delay and message")
	}
	return fields[0], strings.Join(fields[1:], " "), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidDelay marks a reminder delay that does not parse or is not
// positive. Expected form: <number><s|m|h>.
var ErrInvalidDelay = errors.New("invalid delay, expected <number><s|m|h>")

// ParseDelay parses a delay token such as "10s", "5m" or "1h".
func ParseDelay(token string) (time.Duration, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, token)
	}

	magnitude, err := strconv.Atoi(token[:len(token)-1])
	if err != nil || magnitude <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, token)
	}

	switch token[len(token)-1] {
	case 's':
		return time.Duration(magnitude) * time.Second, nil
	case 'm':
		return time.Duration(magnitude) * time.Minute, nil
	case 'h':
		return time.Duration(magnitude) * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, token)
	}
}

// ReminderService schedules one-off delayed reminder messages. Reminders
// are not persisted: a restart drops whatever is pending, and there is no
// cancellation once scheduled.
type ReminderService struct {
	sender Sender
	log    *zap.Logger
	after  func(time.Duration) <-chan time.Time
}

func NewReminderService(sender Sender, log *zap.Logger) *ReminderService {
	return &ReminderService{
		sender: sender,
		log:    log,
		after:  time.After,
	}
}

// Schedule delivers a mention-style reminder to chatID after delay. It
// returns immediately; the wait runs on its own goroutine and shares no
// state with other reminders or the countdown tick.
func (s *ReminderService) Schedule(ctx context.Context, chatID int64, mention, message string, delay time.Duration) {
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-s.after(delay):
		}

		text := fmt.Sprintf("⏰ <b>Reminder:</b> %s, it's time for «%s»!",
			html.EscapeString(mention), html.EscapeString(message))
		if err := s.sender.SendMessage(chatID, text); err != nil {
			s.log.Warn("send reminder", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}()
}

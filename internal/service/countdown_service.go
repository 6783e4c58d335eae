package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"countdown-bot/internal/model"
)

// Store is the narrow persistence interface the countdown logic needs.
// Loading an absent record yields (nil, nil); corrupt state is an error.
type Store interface {
	Load(ctx context.Context) (*model.Countdown, error)
	Save(ctx context.Context, cd *model.Countdown) error
	Clear(ctx context.Context) error
}

// Sender delivers a plain text message to a chat.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Validation errors reported back to the invoking user.
var (
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime    = errors.New("invalid time, expected HH:MM (24h)")
	ErrEmptyEventName = errors.New("event name must not be empty")
)

const finishedText = "🏁 The countdown has finished, settings were reset."

// SetInput carries the validated-to-be arguments of a set command.
type SetInput struct {
	TargetDate string
	SendTime   string
	EventName  string
	ChannelID  int64
}

// CountdownService owns the countdown state machine: creating, inspecting
// and stopping the single countdown, and running the per-minute tick that
// decides whether today's notification is due.
type CountdownService struct {
	store  Store
	sender Sender
	quotes *QuotePicker
	log    *zap.Logger
	now    func() time.Time
}

func NewCountdownService(store Store, sender Sender, quotes *QuotePicker, log *zap.Logger) *CountdownService {
	return &CountdownService{
		store:  store,
		sender: sender,
		quotes: quotes,
		log:    log,
		now:    time.Now,
	}
}

// Set validates the input and fully replaces any existing countdown.
// Date and time are stored in canonical form so the tick's minute
// comparison always matches what Format produces.
func (s *CountdownService) Set(ctx context.Context, input SetInput) (*model.Countdown, error) {
	name := strings.TrimSpace(input.EventName)
	if name == "" {
		return nil, ErrEmptyEventName
	}

	date, err := time.Parse(model.DateLayout, strings.TrimSpace(input.TargetDate))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, input.TargetDate)
	}
	clock, err := time.Parse(model.TimeLayout, strings.TrimSpace(input.SendTime))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTime, input.SendTime)
	}

	cd := &model.Countdown{
		EventName:  name,
		TargetDate: date.Format(model.DateLayout),
		SendTime:   clock.Format(model.TimeLayout),
		ChannelID:  input.ChannelID,
	}
	if err := s.store.Save(ctx, cd); err != nil {
		return nil, err
	}
	return cd, nil
}

// Current returns the active countdown, or nil when none is configured.
func (s *CountdownService) Current(ctx context.Context) (*model.Countdown, error) {
	return s.store.Load(ctx)
}

// Stop clears the active countdown. It reports whether one was present.
func (s *CountdownService) Stop(ctx context.Context) (bool, error) {
	cd, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if cd == nil {
		return false, nil
	}
	if err := s.store.Clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// RandomQuote exposes the injected quote picker for the check command.
func (s *CountdownService) RandomQuote() string {
	return s.quotes.Pick()
}

// Tick runs one scheduling cycle. The notification is due only on an exact
// minute match with the configured send time; a tick delayed past that
// minute skips the day instead of firing late. No failure here stops
// subsequent ticks.
func (s *CountdownService) Tick(ctx context.Context) {
	cd, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("load countdown state", zap.Error(err))
		return
	}
	if cd == nil {
		return
	}

	now := s.now()
	today := now.Format(model.DateLayout)
	if now.Format(model.TimeLayout) != cd.SendTime {
		return
	}
	if cd.LastSentDate != nil && *cd.LastSentDate == today {
		return
	}

	target, err := time.ParseInLocation(model.DateLayout, cd.TargetDate, now.Location())
	if err != nil {
		s.log.Error("stored target date does not parse",
			zap.String("target_date", cd.TargetDate), zap.Error(err))
		return
	}
	remaining := remainingDays(target, now)

	if err := s.sender.SendMessage(cd.ChannelID, s.composeNotification(cd, remaining)); err != nil {
		// Best effort: no LastSentDate stamp, so a failed send is at most
		// a missed day, never a double send.
		s.log.Warn("send countdown notification",
			zap.Int64("channel_id", cd.ChannelID), zap.Error(err))
		return
	}

	cd.LastSentDate = &today
	if err := s.store.Save(ctx, cd); err != nil {
		s.log.Error("stamp last sent date", zap.Error(err))
		return
	}

	if remaining <= 0 {
		if err := s.store.Clear(ctx); err != nil {
			s.log.Error("clear finished countdown", zap.Error(err))
			return
		}
		if err := s.sender.SendMessage(cd.ChannelID, finishedText); err != nil {
			s.log.Warn("send countdown finished notice",
				zap.Int64("channel_id", cd.ChannelID), zap.Error(err))
		}
	}
}

func (s *CountdownService) composeNotification(cd *model.Countdown, remaining int) string {
	name := html.EscapeString(cd.EventName)
	switch {
	case remaining > 0:
		unit := "days"
		if remaining == 1 {
			unit = "day"
		}
		return fmt.Sprintf("📅 <b>%d %s</b> left until <b>%s</b>!\n\n💬 %s",
			remaining, unit, name, s.quotes.Pick())
	case remaining == 0:
		return fmt.Sprintf("🎉 Today is the day: <b>%s</b>! Congratulations, give it your best! 🎉", name)
	default:
		return fmt.Sprintf("The date for <b>%s</b> has already passed.", name)
	}
}

// remainingDays counts whole calendar days from now's date to target.
// Midnight-to-midnight in now's location, rounded so DST transitions do
// not shave a day off.
func remainingDays(target, now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return int(math.Round(target.Sub(today).Hours() / 24))
}

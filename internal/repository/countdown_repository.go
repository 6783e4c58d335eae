package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"countdown-bot/internal/model"
)

const countdownKey = "countdown"

// ErrCorruptState marks persisted countdown state that exists but cannot be
// decoded. Callers must not treat it as "no countdown configured".
var ErrCorruptState = errors.New("corrupt countdown state")

// CountdownRepository persists the single countdown record as a JSON
// document in a key-value row. SQLite's transactional writes make every
// save an atomic full replace.
type CountdownRepository struct {
	db *gorm.DB
}

func NewCountdownRepository(db *gorm.DB) *CountdownRepository {
	return &CountdownRepository{db: db}
}

// Load returns the stored countdown, or (nil, nil) when none is configured.
// A row that exists but does not decode is reported as ErrCorruptState.
func (r *CountdownRepository) Load(ctx context.Context) (*model.Countdown, error) {
	var rec model.StateRecord
	err := r.db.WithContext(ctx).Where("key = ?", countdownKey).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load countdown: %w", err)
	}

	// An empty document also means "no countdown".
	if rec.Value == "" || rec.Value == "{}" {
		return nil, nil
	}

	var cd model.Countdown
	if err := json.Unmarshal([]byte(rec.Value), &cd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if cd.EventName == "" {
		return nil, nil
	}
	return &cd, nil
}

// Save replaces the stored countdown with the given record.
func (r *CountdownRepository) Save(ctx context.Context, cd *model.Countdown) error {
	if cd == nil {
		return r.Clear(ctx)
	}

	value, err := json.Marshal(cd)
	if err != nil {
		return fmt.Errorf("encode countdown: %w", err)
	}

	rec := model.StateRecord{Key: countdownKey, Value: string(value)}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error; err != nil {
		return fmt.Errorf("save countdown: %w", err)
	}
	return nil
}

// Clear removes the stored countdown. Clearing an absent record is a no-op.
func (r *CountdownRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("key = ?", countdownKey).
		Delete(&model.StateRecord{}).Error; err != nil {
		return fmt.Errorf("clear countdown: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"countdown-bot/internal/model"
)

func newTestRepo(t *testing.T) *CountdownRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "state.db"), zap.NewNop())
	require.NoError(t, err)
	return NewCountdownRepository(db)
}

func TestLoadAbsent(t *testing.T) {
	repo := newTestRepo(t)

	cd, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cd)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := &model.Countdown{
		EventName:  "Christmas",
		TargetDate: "2030-12-25",
		SendTime:   "08:00",
		ChannelID:  123456789,
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, out)
	assert.Nil(t, out.LastSentDate)
}

func TestSaveStampsAndReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := &model.Countdown{EventName: "First", TargetDate: "2030-01-02", SendTime: "07:00", ChannelID: 1}
	require.NoError(t, repo.Save(ctx, first))

	stamp := "2030-01-01"
	first.LastSentDate = &stamp
	require.NoError(t, repo.Save(ctx, first))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.LastSentDate)
	assert.Equal(t, stamp, *out.LastSentDate)

	// A new record fully replaces the old one, no merge.
	second := &model.Countdown{EventName: "Second", TargetDate: "2031-05-05", SendTime: "09:00", ChannelID: 2}
	require.NoError(t, repo.Save(ctx, second))

	out, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, out)
	assert.Nil(t, out.LastSentDate)
}

func TestSaveNilClears(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &model.Countdown{EventName: "x", TargetDate: "2030-01-02", SendTime: "07:00"}))
	require.NoError(t, repo.Save(ctx, nil))

	cd, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cd)
}

func TestClearIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &model.Countdown{EventName: "x", TargetDate: "2030-01-02", SendTime: "07:00"}))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	cd, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cd)
}

func TestLoadCorruptStateIsAnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := model.StateRecord{Key: countdownKey, Value: "{not json"}
	require.NoError(t, repo.db.Create(&rec).Error)

	cd, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrCorruptState)
	assert.Nil(t, cd)
}

func TestLoadEmptyDocumentIsAbsent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := model.StateRecord{Key: countdownKey, Value: "{}"}
	require.NoError(t, repo.db.Create(&rec).Error)

	cd, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cd)
}

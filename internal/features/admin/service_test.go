package admin

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/streak"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

var msk = time.FixedZone("MSK", 3*60*60)

// encodeArgon2id собирает хеш в том же формате, что scripts/generate_hash.go.
func encodeArgon2id(password string) string {
	salt := []byte("0123456789abcdef")
	hash := argon2.IDKey([]byte(password), salt, 3, 64*1024, 2, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		64*1024, 3, 2,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

type memEntryStore struct {
	entries map[string]tracker.DayEntry
}

func (m *memEntryStore) List(ctx context.Context) ([]tracker.DayEntry, error) {
	var out []tracker.DayEntry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEntryStore) Upsert(ctx context.Context, e tracker.DayEntry) (tracker.DayEntry, error) {
	m.entries[e.Date] = e
	return e, nil
}

func (m *memEntryStore) DeleteAll(ctx context.Context) error {
	m.entries = map[string]tracker.DayEntry{}
	return nil
}

type memRewardStore struct {
	rewards map[string]reward.WeeklyReward
}

func (m *memRewardStore) Find(ctx context.Context, weekStart string) (*reward.WeeklyReward, error) {
	if rw, ok := m.rewards[weekStart]; ok {
		return &rw, nil
	}
	return nil, nil
}

func (m *memRewardStore) Insert(ctx context.Context, rw reward.WeeklyReward) error {
	m.rewards[rw.WeekStart] = rw
	return nil
}

func (m *memRewardStore) ListUnlocked(ctx context.Context) ([]reward.WeeklyReward, error) {
	var out []reward.WeeklyReward
	for _, rw := range m.rewards {
		out = append(out, rw)
	}
	return out, nil
}

func (m *memRewardStore) DeleteAll(ctx context.Context) error {
	m.rewards = map[string]reward.WeeklyReward{}
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func newAdminService(t *testing.T, hash string, db Pinger) (*Service, *memEntryStore, *memRewardStore) {
	t.Helper()

	entryStore := &memEntryStore{entries: map[string]tracker.DayEntry{
		"2025-06-01": {Date: "2025-06-01", AfternoonCheckin: true},
		"2025-06-02": {Date: "2025-06-02", EveningCheckin: true},
	}}
	trackerSvc := tracker.NewService(entryStore, tracker.NewSnapshot(filepath.Join(t.TempDir(), "entries.json")))
	require.NoError(t, trackerSvc.Load(context.Background()))

	rewardStore := &memRewardStore{rewards: map[string]reward.WeeklyReward{
		"2025-06-01": {WeekStart: "2025-06-01", Title: "Первые шаги", Unlocked: true},
	}}
	rewardSvc := reward.NewService(rewardStore)
	streakSvc := streak.NewService(trackerSvc)

	return NewService(hash, trackerSvc, rewardSvc, streakSvc, db, msk), entryStore, rewardStore
}

func TestVerifyPassword(t *testing.T) {
	svc, _, _ := newAdminService(t, encodeArgon2id("s3cret"), fakePinger{})

	require.NoError(t, svc.VerifyPassword("s3cret"))
	assert.ErrorIs(t, svc.VerifyPassword("wrong"), common.ErrWrongPassword)
	// Успех сбрасывает счётчик неудач
	require.NoError(t, svc.VerifyPassword("s3cret"))
}

func TestVerifyPassword_LockoutAfterThreeFailures(t *testing.T) {
	svc, _, _ := newAdminService(t, encodeArgon2id("s3cret"), fakePinger{})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, svc.VerifyPassword("wrong"), common.ErrWrongPassword)
	}

	// Четвёртая попытка блокируется даже с верным паролем
	err := svc.VerifyPassword("s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrWrongPassword)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	svc, _, _ := newAdminService(t, "не хеш вовсе", fakePinger{})
	assert.ErrorIs(t, svc.VerifyPassword("anything"), common.ErrWrongPassword)
}

func TestReset_WipesEntriesAndRewards(t *testing.T) {
	svc, entryStore, rewardStore := newAdminService(t, encodeArgon2id("s3cret"), fakePinger{})

	require.NoError(t, svc.Reset(context.Background()))
	assert.Empty(t, entryStore.entries)
	assert.Empty(t, rewardStore.rewards)

	st := svc.Stats(context.Background(), time.Date(2025, time.June, 3, 12, 0, 0, 0, msk))
	assert.Zero(t, st.EntryCount)
	assert.Empty(t, st.FirstEntryDate)
}

func TestStats(t *testing.T) {
	svc, _, _ := newAdminService(t, encodeArgon2id("s3cret"), fakePinger{})
	now := time.Date(2025, time.June, 3, 12, 0, 0, 0, msk)

	st := svc.Stats(context.Background(), now)
	assert.Equal(t, 2, st.EntryCount)
	assert.Equal(t, "2025-06-01", st.FirstEntryDate)
	assert.Equal(t, 1, st.RewardCount)
	assert.True(t, st.DBHealthy)

	down, _, _ := newAdminService(t, encodeArgon2id("s3cret"), fakePinger{err: errors.New("connection refused")})
	assert.False(t, down.Stats(context.Background(), now).DBHealthy)
}

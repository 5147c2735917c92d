package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// memEntryStore — хранилище записей в памяти для интеграционных тестов.
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

// memRewardStore — хранилище наград в памяти.
type memRewardStore struct {
	rewards map[string]reward.WeeklyReward
	inserts int
}

func (m *memRewardStore) Find(ctx context.Context, weekStart string) (*reward.WeeklyReward, error) {
	if rw, ok := m.rewards[weekStart]; ok {
		return &rw, nil
	}
	return nil, nil
}

func (m *memRewardStore) Insert(ctx context.Context, rw reward.WeeklyReward) error {
	m.inserts++
	if _, ok := m.rewards[rw.WeekStart]; !ok {
		m.rewards[rw.WeekStart] = rw
	}
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

func newReportService(t *testing.T, entries []tracker.DayEntry) (*Service, *memRewardStore) {
	t.Helper()

	entryStore := &memEntryStore{entries: map[string]tracker.DayEntry{}}
	for _, e := range entries {
		entryStore.entries[e.Date] = e
	}
	trackerSvc := tracker.NewService(entryStore, tracker.NewSnapshot(filepath.Join(t.TempDir(), "entries.json")))
	require.NoError(t, trackerSvc.Load(context.Background()))

	rewardStore := &memRewardStore{rewards: map[string]reward.WeeklyReward{}}
	rewardSvc := reward.NewService(rewardStore)

	return NewService(trackerSvc, rewardSvc, DefaultWindows(), 70, msk), rewardStore
}

// seventyPercentWeek — завершённая неделя на 70%: первая запись во
// вторник, 7 чистых чек-инов из 10 ожидаемых.
func seventyPercentWeek() []tracker.DayEntry {
	return []tracker.DayEntry{
		entry(key(2), true, false, true, false),
		entry(key(3), true, false, true, false),
		entry(key(4), true, false, true, false),
		entry(key(5), true, false, false, false),
	}
}

func TestGetWeekReport_UnlocksRewardExactlyOnce(t *testing.T) {
	svc, rewardStore := newReportService(t, seventyPercentWeek())
	now := sunday.AddDate(0, 0, 8)

	rep := svc.GetWeekReport(context.Background(), sunday, now)
	require.True(t, rep.IsComplete)
	require.InDelta(t, 70.0, rep.Percentage, 0.001)

	// Первая оценка создала награду и приложила её к отчёту
	require.NotNil(t, rep.Reward)
	assert.Equal(t, "2025-06-01", rep.Reward.WeekStart)
	assert.True(t, rep.Reward.Unlocked)
	assert.Len(t, rewardStore.rewards, 1)

	// Повторные запросы наград не плодят
	again := svc.GetWeekReport(context.Background(), sunday, now)
	require.NotNil(t, again.Reward)
	assert.Len(t, rewardStore.rewards, 1)
	assert.Equal(t, 1, rewardStore.inserts)
}

func TestGetWeekReport_NoRewardBelowThreshold(t *testing.T) {
	// Только один чистый чек-ин из десяти ожидаемых
	entries := []tracker.DayEntry{entry(key(2), true, false, false, false)}
	svc, rewardStore := newReportService(t, entries)
	now := sunday.AddDate(0, 0, 8)

	rep := svc.GetWeekReport(context.Background(), sunday, now)
	assert.True(t, rep.IsComplete)
	assert.Less(t, rep.Percentage, 70.0)
	assert.Nil(t, rep.Reward)
	assert.Empty(t, rewardStore.rewards)
}

func TestGetWeekReport_NoRewardForUnfinishedWeek(t *testing.T) {
	svc, rewardStore := newReportService(t, seventyPercentWeek())
	now := sunday.AddDate(0, 0, 4) // четверг той же недели

	rep := svc.GetWeekReport(context.Background(), sunday, now)
	assert.False(t, rep.IsComplete)
	assert.Empty(t, rewardStore.rewards)
}

func TestGetMonthReport_UnlocksRewardsForQualifyingWeeks(t *testing.T) {
	// Две полных чистых недели июня
	var entries []tracker.DayEntry
	for i := 0; i < 14; i++ {
		entries = append(entries, entry(key(i), true, false, true, false))
	}
	svc, rewardStore := newReportService(t, entries)
	now := sunday.AddDate(0, 0, 16)

	rep := svc.GetMonthReport(context.Background(), 2025, time.June, now)

	assert.Equal(t, time.June, rep.Month)
	assert.Len(t, rewardStore.rewards, 2, "обе завершённые чистые недели получили награды")
	require.NotNil(t, rep.BestWeek)
}

func TestGetCurrentWeekReport_UsesWeekOfNow(t *testing.T) {
	svc, _ := newReportService(t, nil)
	now := sunday.AddDate(0, 0, 3).Add(12 * time.Hour) // среда

	rep := svc.GetCurrentWeekReport(context.Background(), now)
	assert.Equal(t, "2025-06-01", rep.WeekStart)
}

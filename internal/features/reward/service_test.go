package reward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var msk = time.FixedZone("MSK", 3*60*60)

// fakeStore — хранилище наград в памяти.
type fakeStore struct {
	rewards map[string]WeeklyReward
	findErr error
	insErr  error
	inserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rewards: map[string]WeeklyReward{}}
}

func (f *fakeStore) Find(ctx context.Context, weekStart string) (*WeeklyReward, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if rw, ok := f.rewards[weekStart]; ok {
		return &rw, nil
	}
	return nil, nil
}

func (f *fakeStore) Insert(ctx context.Context, rw WeeklyReward) error {
	f.inserts++
	if f.insErr != nil {
		return f.insErr
	}
	if _, ok := f.rewards[rw.WeekStart]; !ok {
		f.rewards[rw.WeekStart] = rw
	}
	return nil
}

func (f *fakeStore) ListUnlocked(ctx context.Context) ([]WeeklyReward, error) {
	var out []WeeklyReward
	for _, rw := range f.rewards {
		out = append(out, rw)
	}
	return out, nil
}

func (f *fakeStore) DeleteAll(ctx context.Context) error {
	f.rewards = map[string]WeeklyReward{}
	return nil
}

func TestEvaluate_CreatesRewardOnce(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	firstEntry := time.Date(2025, time.June, 1, 0, 0, 0, 0, msk) // воскресенье
	weekStart := firstEntry                                      // первая неделя трекинга
	now := time.Date(2025, time.June, 8, 10, 0, 0, 0, msk)

	svc.Evaluate(context.Background(), weekStart, firstEntry, now)
	svc.Evaluate(context.Background(), weekStart, firstEntry, now)

	// Повторная оценка той же недели ничего не добавляет
	require.Len(t, store.rewards, 1)
	assert.Equal(t, 1, store.inserts)

	rw := store.rewards["2025-06-01"]
	assert.Equal(t, "Первые шаги", rw.Title)
	assert.True(t, rw.Unlocked)
	assert.Equal(t, now, rw.UnlockedAt)
}

func TestEvaluate_WeekNumberFromFirstEntry(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	firstEntry := time.Date(2025, time.June, 1, 0, 0, 0, 0, msk)
	thirdWeek := firstEntry.AddDate(0, 0, 14)
	now := thirdWeek.AddDate(0, 0, 7)

	svc.Evaluate(context.Background(), thirdWeek, firstEntry, now)

	rw := store.rewards["2025-06-15"]
	assert.Equal(t, "Чемпион постоянства", rw.Title, "третья неделя от первой записи")
}

func TestEvaluate_FirstEntryMidweek(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	// Первая запись в среду: начало её недели раньше первой записи,
	// номер недели не должен уйти в ноль или в панику
	firstEntry := time.Date(2025, time.June, 4, 0, 0, 0, 0, msk)
	weekStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, msk)
	now := time.Date(2025, time.June, 8, 10, 0, 0, 0, msk)

	svc.Evaluate(context.Background(), weekStart, firstEntry, now)

	rw, ok := store.rewards["2025-06-01"]
	require.True(t, ok)
	assert.Equal(t, "Первые шаги", rw.Title)
}

func TestEvaluate_StoreFailuresAreSwallowed(t *testing.T) {
	firstEntry := time.Date(2025, time.June, 1, 0, 0, 0, 0, msk)
	now := firstEntry.AddDate(0, 0, 7)

	// Ошибка поиска — оценка молча прекращается
	store := newFakeStore()
	store.findErr = errors.New("timeout")
	NewService(store).Evaluate(context.Background(), firstEntry, firstEntry, now)
	assert.Zero(t, store.inserts)

	// Ошибка вставки — тоже не паника и не error наружу
	store = newFakeStore()
	store.insErr = errors.New("timeout")
	NewService(store).Evaluate(context.Background(), firstEntry, firstEntry, now)
	assert.Empty(t, store.rewards)
}

func TestFind_SwallowsErrors(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("timeout")
	svc := NewService(store)

	assert.Nil(t, svc.Find(context.Background(), "2025-06-01"))
}

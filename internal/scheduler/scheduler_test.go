package scheduler

import (
	"context"
	"errors"
	"lottery_backend/internal/clock"
	"lottery_backend/internal/config/env"
	"lottery_backend/internal/event"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository/memory"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubRooms struct {
	mu     sync.Mutex
	active []int64
	err    error
}

func (r *stubRooms) ActivateRoom(context.Context, int64, string) error {
	return nil
}

func (r *stubRooms) DeactivateRoom(context.Context, int64) error {
	return nil
}

func (r *stubRooms) SetForcedOutcome(context.Context, int64, model.ForcedOutcome) error {
	return nil
}

func (r *stubRooms) ClearForcedOutcome(context.Context, int64) error {
	return nil
}

func (r *stubRooms) IsActive(context.Context, int64) (bool, error) {
	return true, nil
}

func (r *stubRooms) ActiveRooms(context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]int64(nil), r.active...), nil
}

type stubSettlement struct {
	mu       sync.Mutex
	opened   []model.RoundKey
	settled  []model.RoundKey
	pending  map[int64][]int64
	fail     map[model.RoundKey]bool
	onSettle func(key model.RoundKey)
}

func (s *stubSettlement) OpenRound(_ context.Context, key model.RoundKey) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, key)
	return "c-" + key.RoundID(), nil
}

func (s *stubSettlement) SettleRound(_ context.Context, key model.RoundKey) (*model.Settlement, error) {
	s.mu.Lock()
	fail := s.fail[key]
	s.settled = append(s.settled, key)
	hook := s.onSettle
	s.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	if fail {
		return nil, errors.New("storage unavailable")
	}
	return &model.Settlement{Result: model.RoundResult{Key: key}}, nil
}

func (s *stubSettlement) PendingRounds(_ context.Context, roomID, _ int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[roomID], nil
}

func (s *stubSettlement) Result(context.Context, model.RoundKey) (*model.RoundResult, error) {
	return nil, model.ErrRoundNotFound
}

func (s *stubSettlement) History(context.Context, int64, int) ([]model.RoundResult, error) {
	return nil, nil
}

func (s *stubSettlement) VerifyResult(context.Context, model.RoundKey) (*model.RoundResult, bool, error) {
	return nil, false, model.ErrRoundNotFound
}

func (s *stubSettlement) settledFor(roomID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var epochs []int64
	for _, k := range s.settled {
		if k.RoomID == roomID {
			epochs = append(epochs, k.Epoch)
		}
	}
	return epochs
}

type published struct {
	name    string
	payload interface{}
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(name string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{name: name, payload: payload})
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.name == name {
			n++
		}
	}
	return n
}

func (r *recorder) index(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.events {
		if e.name == name {
			return i
		}
	}
	return -1
}

func (r *recorder) ticks() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []int
	for _, e := range r.events {
		if tick, ok := e.payload.(event.CountdownTick); ok && tick.RoomID == 1 {
			res = append(res, tick.SecondsRemaining)
		}
	}
	return res
}

type fixture struct {
	sched      *Scheduler
	rooms      *stubRooms
	settlement *stubSettlement
	locker     *memory.RoundLocker
	events     *recorder
	clock      *clock.Fake
}

// boundary - граница раунда 28333334 при длительности 60s
var boundary = time.Unix(1_700_000_040, 0)

const epoch = int64(28333334)

func createTestScheduler(t *testing.T, now time.Time) *fixture {
	t.Helper()

	cfg, err := env.ParseGameConfig(nil)
	require.NoError(t, err)

	f := &fixture{
		rooms:      &stubRooms{active: []int64{1, 2}},
		settlement: &stubSettlement{pending: map[int64][]int64{}, fail: map[model.RoundKey]bool{}},
		locker:     memory.NewRoundLocker(),
		events:     &recorder{},
		clock:      clock.NewFake(now),
	}
	f.sched = New(f.rooms, f.settlement, f.locker, f.events, cfg, f.clock, zaptest.NewLogger(t))
	return f
}

func TestNextBoundary(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		round time.Duration
		want  time.Time
	}{
		{name: "mid round", now: time.Unix(1_700_000_000, 0), round: time.Minute, want: boundary},
		{name: "exactly on boundary", now: boundary, round: time.Minute, want: boundary.Add(time.Minute)},
		{name: "just before", now: boundary.Add(-time.Millisecond), round: time.Minute, want: boundary},
		{name: "short rounds", now: time.Unix(95, 0), round: 30 * time.Second, want: time.Unix(120, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextBoundary(tt.now, tt.round)))
		})
	}
}

func TestIterateFullRound(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))

	require.NoError(t, f.sched.iterate(context.Background()))

	assert.True(t, boundary.Equal(f.clock.Now()))
	assert.Equal(t, []model.RoundKey{{RoomID: 1, Epoch: epoch}, {RoomID: 2, Epoch: epoch}}, f.settlement.opened)
	assert.Equal(t, []int64{epoch}, f.settlement.settledFor(1))
	assert.Equal(t, []int64{epoch}, f.settlement.settledFor(2))

	assert.ElementsMatch(t, []int{30, 10, 5}, f.events.ticks())
	assert.Equal(t, 2, f.events.count(event.EventRoundOpened))
	assert.Equal(t, 2, f.events.count(event.EventLockRequested))
	assert.Equal(t, 2, f.events.count(event.EventUnlockRequested))
	assert.Less(t, f.events.index(event.EventLockRequested), f.events.index(event.EventUnlockRequested))

	opened := f.events.events[0].payload.(event.RoundOpened)
	assert.Equal(t, "1_28333334", opened.RoundID)
	assert.Equal(t, "c-1_28333334", opened.Commitment)
}

func TestIterateSkipsPassedOffsets(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-7*time.Second))

	require.NoError(t, f.sched.iterate(context.Background()))

	assert.Equal(t, []int{5}, f.events.ticks())
	assert.Equal(t, 2, f.events.count(event.EventLockRequested))
}

func TestIterateLockFiresLate(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-3*time.Second))

	require.NoError(t, f.sched.iterate(context.Background()))

	assert.Equal(t, []int{5}, f.events.ticks())
	assert.Equal(t, 2, f.events.count(event.EventLockRequested))
	assert.Equal(t, 2, f.events.count(event.EventUnlockRequested))
}

func TestIterateSettlesOverdueRoundsFirst(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	f.settlement.pending[1] = []int64{epoch - 5, epoch - 2}

	require.NoError(t, f.sched.iterate(context.Background()))

	assert.Equal(t, []int64{epoch - 5, epoch - 2, epoch}, f.settlement.settledFor(1))
	assert.Equal(t, []int64{epoch}, f.settlement.settledFor(2))
}

func TestIterateSettlesRoomActivatedMidRound(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	// Второе обращение к списку комнат происходит уже на границе
	f.sched.rooms = &sequenceRooms{lists: [][]int64{{1}, {1, 3}}}

	require.NoError(t, f.sched.iterate(context.Background()))

	assert.Equal(t, []int64{epoch}, f.settlement.settledFor(3))
	assert.Equal(t, 1, f.events.count(event.EventLockRequested))
	assert.Equal(t, 2, f.events.count(event.EventUnlockRequested))
}

type sequenceRooms struct {
	stubRooms
	lists [][]int64
	calls int
}

func (r *sequenceRooms) ActiveRooms(context.Context) ([]int64, error) {
	i := min(r.calls, len(r.lists)-1)
	r.calls++
	return r.lists[i], nil
}

func TestFailedSettlementReleasesClaim(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	key := model.RoundKey{RoomID: 2, Epoch: epoch}
	f.settlement.fail[key] = true

	err := f.sched.iterate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), key.RoundID())

	// Комната 1 рассчитана, несмотря на сбой соседней
	assert.Equal(t, []int64{epoch}, f.settlement.settledFor(1))
	assert.Equal(t, 2, f.events.count(event.EventUnlockRequested))

	ok, err := f.locker.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok, "failed round must be claimable again")

	ok, err = f.locker.Acquire(context.Background(), model.RoundKey{RoomID: 1, Epoch: epoch})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClaimedRoundIsSkipped(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	ok, err := f.locker.Acquire(context.Background(), model.RoundKey{RoomID: 1, Epoch: epoch})
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.sched.iterate(context.Background()))

	assert.Empty(t, f.settlement.settledFor(1))
	assert.Equal(t, []int64{epoch}, f.settlement.settledFor(2))
}

func TestIterateRecoversPanic(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	f.settlement.onSettle = func(key model.RoundKey) {
		if key.RoomID == 1 {
			panic("boom")
		}
	}

	err := f.sched.iterate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.Equal(t, 2, f.events.count(event.EventUnlockRequested))
}

func TestStartRunsUntilCancelled(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	f.rooms.active = []int64{1}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	rounds := 0
	f.settlement.onSettle = func(model.RoundKey) {
		mu.Lock()
		defer mu.Unlock()
		if rounds++; rounds == 3 {
			cancel()
		}
	}

	done := make(chan struct{})
	go func() {
		f.sched.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	assert.Equal(t, []int64{epoch, epoch + 1, epoch + 2}, f.settlement.settledFor(1))
}

func TestStartPausesAfterFailedIteration(t *testing.T) {
	f := createTestScheduler(t, boundary.Add(-40*time.Second))
	f.rooms.err = errors.New("db down")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		assert.Eventually(t, func() bool {
			return f.clock.Now().After(boundary.Add(10 * time.Second))
		}, 5*time.Second, time.Millisecond)
		cancel()
	}()

	f.sched.Start(ctx)

	assert.Empty(t, f.settlement.settledFor(1))
}

package memory

import (
	"context"
	"errors"
	"lottery_backend/internal/model"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountDebitAndCredit(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository()

	_, err := r.Debit(ctx, 1, 10)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	require.NoError(t, r.EnsureAccount(ctx, 1))
	_, err = r.Credit(ctx, 1, 1500)
	require.NoError(t, err)

	balance, err := r.Debit(ctx, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	balance, err = r.Debit(ctx, 1, 501)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	assert.Equal(t, int64(500), balance)

	acc, err := r.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.TotalBetVolume)
}

func TestAccountConcurrentCredits(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository()
	require.NoError(t, r.EnsureAccount(ctx, 1))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Credit(ctx, 1, 10)
		}()
	}
	wg.Wait()

	acc, err := r.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
}

func TestAccountStreaks(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository()
	require.NoError(t, r.EnsureAccount(ctx, 1))

	for _, won := range []bool{true, true, true, false, true} {
		require.NoError(t, r.RecordStreak(ctx, 1, won))
	}

	acc, err := r.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, acc.CurrentStreak)
	assert.Equal(t, 3, acc.BestStreak)
}

func TestAccountTopBalances(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository()
	for id, amount := range map[int64]int64{1: 500, 2: 900, 3: 500, 4: 100} {
		require.NoError(t, r.EnsureAccount(ctx, id))
		_, err := r.Credit(ctx, id, amount)
		require.NoError(t, err)
	}

	top, err := r.TopBalances(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	// при равном балансе порядок по id
	assert.Equal(t, []int64{2, 1, 3}, []int64{top[0].ID, top[1].ID, top[2].ID})

	top, err = r.TopBalances(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, top, 4)
}

func TestWagerLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewWagerRepository()
	key := model.RoundKey{RoomID: 5, Epoch: 10}

	a := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 1, Stake: 1000, CreatedAt: time.Now()}
	b := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 2, Stake: 500, CreatedAt: time.Now()}
	old := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 8, AccountID: 2, Stake: 500}
	other := model.Wager{ID: uuid.New(), RoomID: 6, Epoch: 3, AccountID: 2, Stake: 500}
	for _, w := range []model.Wager{a, b, old, other} {
		w := w
		require.NoError(t, r.CreateWager(ctx, &w))
	}

	pending, err := r.Pending(ctx, key)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, r.MarkSettled(ctx, []uuid.UUID{a.ID}))
	pending, err = r.Pending(ctx, key)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)

	epochs, err := r.PendingEpochs(ctx, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 10}, epochs)

	require.NoError(t, r.ClearRound(ctx, key, []uuid.UUID{a.ID, b.ID}))
	pending, err = r.Pending(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, pending)

	epochs, err = r.PendingEpochs(ctx, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, epochs)
}

func TestWagerClearRoundKeepsLateWagers(t *testing.T) {
	ctx := context.Background()
	r := NewWagerRepository()
	key := model.RoundKey{RoomID: 5, Epoch: 10}

	seen := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 1, Stake: 1000}
	late := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 1, Stake: 700}
	require.NoError(t, r.CreateWager(ctx, &seen))
	require.NoError(t, r.CreateWager(ctx, &late))

	require.NoError(t, r.ClearRound(ctx, key, []uuid.UUID{seen.ID}))

	pending, err := r.Pending(ctx, key)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, late.ID, pending[0].ID)
}

func TestWagerMarkSettledIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	r := NewWagerRepository()
	key := model.RoundKey{RoomID: 5, Epoch: 10}

	a := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 1, Stake: 1000}
	b := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 2, Stake: 1000}
	require.NoError(t, r.CreateWager(ctx, &a))
	require.NoError(t, r.CreateWager(ctx, &b))

	require.NoError(t, r.MarkSettled(ctx, []uuid.UUID{a.ID}))
	assert.ErrorIs(t, r.MarkSettled(ctx, []uuid.UUID{a.ID}), model.ErrWagerSettled)
	assert.ErrorIs(t, r.MarkSettled(ctx, []uuid.UUID{b.ID, a.ID}), model.ErrWagerSettled)
	assert.ErrorIs(t, r.MarkSettled(ctx, []uuid.UUID{uuid.New()}), model.ErrWagerSettled)

	pending, err := r.Pending(ctx, key)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository()
	wagers := NewWagerRepository()
	pot := NewPotRepository()
	tx := NewTxManager()

	require.NoError(t, accounts.EnsureAccount(ctx, 1))
	_, err := accounts.Credit(ctx, 1, 5000)
	require.NoError(t, err)

	w := model.Wager{ID: uuid.New(), RoomID: 5, Epoch: 10, AccountID: 1, Stake: 1000}
	boom := errors.New("boom")
	err = tx.Do(ctx, func(txCtx context.Context) error {
		if _, err := accounts.Debit(txCtx, 1, 1000); err != nil {
			return err
		}
		if err := wagers.CreateWager(txCtx, &w); err != nil {
			return err
		}
		if err := wagers.MarkSettled(txCtx, []uuid.UUID{w.ID}); err != nil {
			return err
		}
		if err := pot.AddToPot(txCtx, 1000); err != nil {
			return err
		}
		if _, err := accounts.Credit(txCtx, 1, 300); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	acc, err := accounts.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), acc.Balance)
	assert.Equal(t, int64(0), acc.TotalBetVolume)

	amount, err := pot.PotAmount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)

	pending, err := wagers.Pending(ctx, w.Key())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTxManagerCommitsAndNests(t *testing.T) {
	ctx := context.Background()
	pot := NewPotRepository()
	tx := NewTxManager()

	err := tx.Do(ctx, func(txCtx context.Context) error {
		if err := pot.AddToPot(txCtx, 10); err != nil {
			return err
		}
		return tx.Do(txCtx, func(inner context.Context) error {
			return pot.AddToPot(inner, 5)
		})
	})
	require.NoError(t, err)

	amount, err := pot.PotAmount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15), amount)
}

func TestRoomForcedIsOneShot(t *testing.T) {
	ctx := context.Background()
	r := NewRoomRepository()

	assert.ErrorIs(t, r.SetForced(ctx, 1, &model.ForcedOutcome{Kind: model.ForcedBig}), model.ErrRoomNotFound)

	require.NoError(t, r.SetActive(ctx, 1, "lobby", true))
	require.NoError(t, r.SetActive(ctx, 2, "", true))
	require.NoError(t, r.SetActive(ctx, 2, "", false))
	require.NoError(t, r.SetForced(ctx, 1, &model.ForcedOutcome{Kind: model.ForcedSmall}))
	require.NoError(t, r.SetForced(ctx, 1, &model.ForcedOutcome{Kind: model.ForcedBig}))

	ids, err := r.ActiveRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	f, err := r.TakeForced(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, model.ForcedBig, f.Kind)

	f, err = r.TakeForced(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, f)

	room, err := r.GetRoom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "lobby", room.Title)
}

func TestHistoryRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewHistoryRepository()

	for epoch := int64(1); epoch <= 20; epoch++ {
		ok, err := r.SaveResult(ctx, &model.RoundResult{Key: model.RoundKey{RoomID: 1, Epoch: epoch}})
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := r.SaveResult(ctx, &model.RoundResult{Key: model.RoundKey{RoomID: 1, Epoch: 20}})
	require.NoError(t, err)
	assert.False(t, ok)

	recent, err := r.Recent(ctx, 1, 15)
	require.NoError(t, err)
	require.Len(t, recent, 15)
	assert.Equal(t, int64(20), recent[0].Key.Epoch)
	assert.Equal(t, int64(6), recent[14].Key.Epoch)

	_, err = r.GetResult(ctx, model.RoundKey{RoomID: 2, Epoch: 1})
	assert.ErrorIs(t, err, model.ErrRoundNotFound)
}

func TestRoundLocker(t *testing.T) {
	ctx := context.Background()
	l := NewRoundLocker()
	key := model.RoundKey{RoomID: 1, Epoch: 3}

	ok, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, key))
	ok, err = l.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeedFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	r := NewSeedRepository()
	key := model.RoundKey{RoomID: 1, Epoch: 3}

	stored, err := r.SaveSeed(ctx, key, "aa")
	require.NoError(t, err)
	assert.Equal(t, "aa", stored)

	// вторая реплика получает уже записанный сид
	stored, err = r.SaveSeed(ctx, key, "bb")
	require.NoError(t, err)
	assert.Equal(t, "aa", stored)

	require.NoError(t, r.DeleteSeed(ctx, key))
	_, err = r.GetSeed(ctx, key)
	assert.ErrorIs(t, err, model.ErrSeedNotFound)
}

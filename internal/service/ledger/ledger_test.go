package ledger

import (
	"context"
	"errors"
	"lottery_backend/internal/clock"
	"lottery_backend/internal/config/env"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository/memory"
	"lottery_backend/internal/service"
	"lottery_backend/internal/service/room"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// slowAccounts - списание занимает delay времени фиктивных часов
type slowAccounts struct {
	*memory.AccountRepo
	clock *clock.Fake
	delay time.Duration
}

func (a *slowAccounts) Debit(ctx context.Context, id int64, amount int64) (int64, error) {
	a.clock.Advance(a.delay)
	return a.AccountRepo.Debit(ctx, id, amount)
}

type ledgerFixture struct {
	serv     service.LedgerService
	accounts *slowAccounts
	wagers   *memory.WagerRepo
	clock    *clock.Fake
}

func createTestLedger(t *testing.T) *ledgerFixture {
	t.Helper()

	cfg, err := env.ParseGameConfig(nil)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	rooms := room.NewRoomService(memory.NewRoomRepository(), log)
	require.NoError(t, rooms.ActivateRoom(context.Background(), 100, "main"))

	f := &ledgerFixture{
		wagers: memory.NewWagerRepository(),
		clock:  clock.NewFake(time.Unix(6000, 0).Add(20 * time.Second)),
	}
	f.accounts = &slowAccounts{AccountRepo: memory.NewAccountRepository(), clock: f.clock}
	f.serv = NewLedgerService(f.accounts, f.wagers, memory.NewPotRepository(), rooms, memory.NewTxManager(), cfg, f.clock, log)
	return f
}

func TestPlaceWagerDebitsAndTargetsNextRound(t *testing.T) {
	ctx := context.Background()
	f := createTestLedger(t)

	_, err := f.serv.Credit(ctx, 1, 5000)
	require.NoError(t, err)

	w, err := f.serv.PlaceWager(ctx, model.PlaceWager{
		RoomID: 100, AccountID: 1, Kind: model.WagerSize, Value: "small", Stake: 1000,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, w.ID)
	// now = 6020s, раунд 60s -> текущая эпоха 100, ставка на 101
	assert.Equal(t, int64(101), w.Epoch)

	acc, err := f.serv.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), acc.Balance)
	assert.Equal(t, int64(1000), acc.TotalBetVolume)

	pending, err := f.wagers.Pending(ctx, model.RoundKey{RoomID: 100, Epoch: 101})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, w.ID, pending[0].ID)
}

func TestPlaceWagerRejections(t *testing.T) {
	ctx := context.Background()
	f := createTestLedger(t)
	_, err := f.serv.Credit(ctx, 1, 1500)
	require.NoError(t, err)

	cases := []struct {
		name string
		req  model.PlaceWager
		err  error
	}{
		{
			name: "below minimum",
			req:  model.PlaceWager{RoomID: 100, AccountID: 1, Kind: model.WagerSize, Value: "big", Stake: 999},
			err:  model.ErrBelowMinimumStake,
		},
		{
			name: "insufficient balance",
			req:  model.PlaceWager{RoomID: 100, AccountID: 1, Kind: model.WagerParity, Value: "odd", Stake: 2000},
			err:  model.ErrInsufficientBalance,
		},
		{
			name: "number too long",
			req:  model.PlaceWager{RoomID: 100, AccountID: 1, Kind: model.WagerNumber, Value: "1234567", Stake: 1000},
			err:  model.ErrInvalidValueLength,
		},
		{
			name: "number empty",
			req:  model.PlaceWager{RoomID: 100, AccountID: 1, Kind: model.WagerNumber, Value: "", Stake: 1000},
			err:  model.ErrInvalidValueLength,
		},
		{
			name: "unknown size value",
			req:  model.PlaceWager{RoomID: 100, AccountID: 1, Kind: model.WagerSize, Value: "huge", Stake: 1000},
			err:  model.ErrInvalidWager,
		},
		{
			name: "inactive room",
			req:  model.PlaceWager{RoomID: 7, AccountID: 1, Kind: model.WagerSize, Value: "big", Stake: 1000},
			err:  model.ErrRoomInactive,
		},
		{
			name: "unknown account",
			req:  model.PlaceWager{RoomID: 100, AccountID: 2, Kind: model.WagerSize, Value: "big", Stake: 1000},
			err:  model.ErrAccountNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.serv.PlaceWager(ctx, tc.req)
			assert.True(t, errors.Is(err, tc.err), "got %v", err)
		})
	}

	acc, err := f.serv.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), acc.Balance)
}

func TestPlaceWagerConcurrentNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	f := createTestLedger(t)
	_, err := f.serv.Credit(ctx, 1, 10000)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.serv.PlaceWager(ctx, model.PlaceWager{
				RoomID: 100, AccountID: 1, Kind: model.WagerNumber, Value: "7", Stake: 1000,
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	acc, err := f.serv.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)
}

func TestPlaceWagerRejectedWhenBoundaryPassesMidTransaction(t *testing.T) {
	ctx := context.Background()
	f := createTestLedger(t)
	_, err := f.serv.Credit(ctx, 1, 5000)
	require.NoError(t, err)

	// Ставка на эпоху 101 закрывается в 6060s, списание завершается в 6061s
	f.accounts.delay = 41 * time.Second

	_, err = f.serv.PlaceWager(ctx, model.PlaceWager{
		RoomID: 100, AccountID: 1, Kind: model.WagerSize, Value: "small", Stake: 1000,
	})
	require.ErrorIs(t, err, model.ErrRoundClosed)

	acc, err := f.serv.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), acc.Balance)
	assert.Equal(t, int64(0), acc.TotalBetVolume)

	pending, err := f.wagers.Pending(ctx, model.RoundKey{RoomID: 100, Epoch: 101})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreditRejectsNonPositive(t *testing.T) {
	f := createTestLedger(t)
	_, err := f.serv.Credit(context.Background(), 1, 0)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestTopBalancesOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	f := createTestLedger(t)
	for id := int64(1); id <= 60; id++ {
		_, err := f.serv.Credit(ctx, id, id*100)
		require.NoError(t, err)
	}

	top, err := f.serv.TopBalances(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int64{60, 59, 58}, []int64{top[0].ID, top[1].ID, top[2].ID})
	assert.Equal(t, int64(6000), top[0].Balance)

	// без лимита берётся значение по умолчанию
	top, err = f.serv.TopBalances(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, defaultTopLimit)
}

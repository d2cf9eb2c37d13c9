package ws

import (
	"encoding/json"
	"lottery_backend/internal/event"
	"lottery_backend/internal/model"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHubRelaysBusEvents(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	bus := event.NewBus()
	hub.Attach(bus)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 5*time.Millisecond)

	bus.Publish(event.EventLockRequested, event.LockRequested{RoomID: 7, Epoch: 3})

	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		assert.JSONEq(t, `"room.lock"`, string(env["event"]))
		assert.JSONEq(t, `{"room_id":7,"epoch":3}`, string(env["payload"]))
	}
}

func TestHubConvertsSettlement(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	bus := event.NewBus()
	hub.Attach(bus)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	bus.Publish(event.EventRoundSettled, event.RoundSettled{Settlement: &model.Settlement{
		Result: model.RoundResult{
			Key:    model.RoundKey{RoomID: 1, Epoch: 2},
			Digits: model.Digits{4, 5, 7, 8, 9, 3},
			Size:   model.SizeSmall,
			Parity: model.ParityOdd,
		},
		Outcomes:  []model.BettorOutcome{{WagerID: "w", AccountID: 10, Stake: 1000, Payout: 1970, Won: true, Paid: true}},
		PaidTotal: 1970,
	}})

	env := readEnvelope(t, conn)
	var payload struct {
		Result struct {
			RoundID string `json:"round_id"`
			Digits  string `json:"digits"`
		} `json:"result"`
		PaidTotal int64 `json:"paid_total"`
	}
	require.NoError(t, json.Unmarshal(env["payload"], &payload))
	assert.Equal(t, "1_2", payload.Result.RoundID)
	assert.Equal(t, "457893", payload.Result.Digits)
	assert.Equal(t, int64(1970), payload.PaidTotal)
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

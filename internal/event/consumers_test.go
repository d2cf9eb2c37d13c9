package event

import (
	"lottery_backend/internal/metrics"
	"lottery_backend/internal/model"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsumers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewBus()
	AttachLogger(bus, zap.New(core))
	AttachMetrics(bus)

	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(EventRoundSettled))

	bus.Publish(EventRoundOpened, RoundOpened{RoomID: 1, Epoch: 2, RoundID: "1_2"})
	bus.Publish(EventRoundSettled, RoundSettled{Settlement: &model.Settlement{
		Result: model.RoundResult{Key: model.RoundKey{RoomID: 1, Epoch: 2}},
		Failed: 1,
	}})

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(EventRoundSettled)))
	assert.Equal(t, 1, logs.FilterMessage("round opened").Len())
	assert.Equal(t, 1, logs.FilterMessage("round settled with unpaid winners").Len())
}

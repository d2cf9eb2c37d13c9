package event

import (
	"lottery_backend/internal/metrics"

	"go.uber.org/zap"
)

// AttachLogger - журнал жизненного цикла раундов
func AttachLogger(bus *Bus, log *zap.Logger) {
	log = log.Named("events")

	bus.Subscribe(EventRoundOpened, func(payload interface{}) {
		if e, ok := payload.(RoundOpened); ok {
			log.Info("round opened", zap.String("round_id", e.RoundID), zap.String("commitment", e.Commitment))
		}
	})
	bus.Subscribe(EventCountdownTick, func(payload interface{}) {
		if e, ok := payload.(CountdownTick); ok {
			log.Debug("countdown", zap.Int64("room_id", e.RoomID), zap.Int("seconds_remaining", e.SecondsRemaining))
		}
	})
	bus.Subscribe(EventLockRequested, func(payload interface{}) {
		if e, ok := payload.(LockRequested); ok {
			log.Debug("room lock requested", zap.Int64("room_id", e.RoomID), zap.Int64("epoch", e.Epoch))
		}
	})
	bus.Subscribe(EventUnlockRequested, func(payload interface{}) {
		if e, ok := payload.(UnlockRequested); ok {
			log.Debug("room unlock requested", zap.Int64("room_id", e.RoomID), zap.Int64("epoch", e.Epoch))
		}
	})
	bus.Subscribe(EventRoundSettled, func(payload interface{}) {
		e, ok := payload.(RoundSettled)
		if !ok || e.Settlement == nil {
			return
		}
		if e.Settlement.Failed > 0 {
			log.Warn("round settled with unpaid winners",
				zap.String("round_id", e.Settlement.Result.Key.RoundID()),
				zap.Int("failed", e.Settlement.Failed),
			)
		}
	})
}

func AttachMetrics(bus *Bus) {
	for _, name := range All {
		counter := metrics.EventsPublished.WithLabelValues(name)
		bus.Subscribe(name, func(interface{}) {
			counter.Inc()
		})
	}
}

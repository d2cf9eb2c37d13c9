package settlement

import (
	"lottery_backend/internal/clock"
	"lottery_backend/internal/config"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"
	"lottery_backend/internal/service/outcome"

	"go.uber.org/zap"
)

type Deps struct {
	WagerRepo   repository.WagerRepository
	AccountRepo repository.AccountRepository
	RoomRepo    repository.RoomRepository
	HistoryRepo repository.HistoryRepository
	PotRepo     repository.PotRepository
	Fairness    service.FairnessProvider
	TxManager   service.TxManager
	Publisher   service.Publisher
	Config      config.GameConfig
	Clock       clock.Clock
	Log         *zap.Logger
}

type serv struct {
	wagerRepo   repository.WagerRepository
	accountRepo repository.AccountRepository
	roomRepo    repository.RoomRepository
	historyRepo repository.HistoryRepository
	potRepo     repository.PotRepository
	fairness    service.FairnessProvider
	txManager   service.TxManager
	publisher   service.Publisher
	cfg         config.GameConfig
	payouts     outcome.Payouts
	clock       clock.Clock
	log         *zap.Logger
}

// NewSettlementService - расчёт раундов
func NewSettlementService(deps Deps) service.SettlementService {
	return &serv{
		wagerRepo:   deps.WagerRepo,
		accountRepo: deps.AccountRepo,
		roomRepo:    deps.RoomRepo,
		historyRepo: deps.HistoryRepo,
		potRepo:     deps.PotRepo,
		fairness:    deps.Fairness,
		txManager:   deps.TxManager,
		publisher:   deps.Publisher,
		cfg:         deps.Config,
		payouts:     outcome.NewPayouts(deps.Config),
		clock:       deps.Clock,
		log:         deps.Log.Named("settlement"),
	}
}

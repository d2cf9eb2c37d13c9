package ledger

import (
	"lottery_backend/internal/clock"
	"lottery_backend/internal/config"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"

	"go.uber.org/zap"
)

type serv struct {
	accountRepo repository.AccountRepository
	wagerRepo   repository.WagerRepository
	potRepo     repository.PotRepository
	rooms       service.RoomService
	txManager   service.TxManager
	cfg         config.GameConfig
	clock       clock.Clock
	log         *zap.Logger
}

// NewLedgerService - реестр ставок и балансов
func NewLedgerService(
	accountRepo repository.AccountRepository,
	wagerRepo repository.WagerRepository,
	potRepo repository.PotRepository,
	rooms service.RoomService,
	txManager service.TxManager,
	cfg config.GameConfig,
	clk clock.Clock,
	log *zap.Logger,
) service.LedgerService {
	return &serv{
		accountRepo: accountRepo,
		wagerRepo:   wagerRepo,
		potRepo:     potRepo,
		rooms:       rooms,
		txManager:   txManager,
		cfg:         cfg,
		clock:       clk,
		log:         log.Named("ledger"),
	}
}

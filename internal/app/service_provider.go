package app

import (
	"context"
	accountAPI "lottery_backend/internal/api/account"
	authAPI "lottery_backend/internal/api/auth"
	roomAPI "lottery_backend/internal/api/room"
	roundAPI "lottery_backend/internal/api/round"
	wagerAPI "lottery_backend/internal/api/wager"
	"lottery_backend/internal/clock"
	"lottery_backend/internal/config"
	"lottery_backend/internal/config/env"
	"lottery_backend/internal/event"
	"lottery_backend/internal/jobs"
	"lottery_backend/internal/logger"
	mw "lottery_backend/internal/middleware"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/repository/account_repo"
	"lottery_backend/internal/repository/claim_repo"
	"lottery_backend/internal/repository/history_repo"
	"lottery_backend/internal/repository/memory"
	"lottery_backend/internal/repository/pot_repo"
	"lottery_backend/internal/repository/room_repo"
	"lottery_backend/internal/repository/schema"
	"lottery_backend/internal/repository/seed_repo"
	"lottery_backend/internal/repository/wager_repo"
	"lottery_backend/internal/scheduler"
	"lottery_backend/internal/service"
	"lottery_backend/internal/service/auth"
	"lottery_backend/internal/service/fairness"
	"lottery_backend/internal/service/ledger"
	"lottery_backend/internal/service/room"
	"lottery_backend/internal/service/settlement"
	"lottery_backend/internal/ws"
	"lottery_backend/pkg/resp"
	"net/http"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const potSampleInterval = 15 * time.Second

type ServiceProvider struct {
	// Configs
	appCfg   config.AppConfig
	gameCfg  config.GameConfig
	httpCfg  config.HTTPConfig
	pgConfig config.PGConfig
	jwtCfg   config.JWTConfig
	redisCfg config.RedisConfig

	log   *zap.Logger
	clock clock.Clock

	// Storage
	dbClient    *pgxpool.Pool
	redisClient *redis.Client
	txManager   service.TxManager
	accountRepo repository.AccountRepository
	wagerRepo   repository.WagerRepository
	roomRepo    repository.RoomRepository
	historyRepo repository.HistoryRepository
	potRepo     repository.PotRepository
	seedRepo    repository.SeedRepository
	locker      repository.RoundLocker

	// Services
	bus            *event.Bus
	hub            *ws.Hub
	fairness       service.FairnessProvider
	roomServ       service.RoomService
	ledgerServ     service.LedgerService
	settlementServ service.SettlementService
	authServ       service.AuthService
	scheduler      *scheduler.Scheduler
	jobs           *jobs.Manager

	// Router and handlers
	authHand    *authAPI.Handler
	wagerHand   *wagerAPI.Handler
	accountHand *accountAPI.Handler
	roomHand    *roomAPI.Handler
	roundHand   *roundAPI.Handler
	router      chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) AppCfg() config.AppConfig {
	if sp.appCfg == nil {
		cfg, err := env.NewAppConfig()
		if err != nil {
			panic("failed to get app config: " + err.Error())
		}
		sp.appCfg = cfg
	}
	return sp.appCfg
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfigFromYAML(sp.AppCfg().GameConfigPath())
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}
	return sp.httpCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		log, err := logger.New(sp.AppCfg().Env())
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = log
	}
	return sp.log
}

func (sp *ServiceProvider) Clock() clock.Clock {
	if sp.clock == nil {
		sp.clock = clock.New()
	}
	return sp.clock
}

func (sp *ServiceProvider) postgres() bool {
	return sp.AppCfg().Storage() == env.StoragePostgres
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.NewWithConfig(ctx, sp.PgConfig().PoolConfig())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		err = schema.Apply(ctx, dbc)
		if err != nil {
			panic("failed to apply schema: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.redisClient == nil {
		cfg := sp.RedisCfg()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Address(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) service.TxManager {
	if sp.txManager == nil {
		if !sp.postgres() {
			sp.txManager = memory.NewTxManager()
			return sp.txManager
		}

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) AccountRepo(ctx context.Context) repository.AccountRepository {
	if sp.accountRepo == nil {
		if sp.postgres() {
			sp.accountRepo = account_repo.NewAccountRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		} else {
			sp.accountRepo = memory.NewAccountRepository()
		}
	}
	return sp.accountRepo
}

func (sp *ServiceProvider) WagerRepo(ctx context.Context) repository.WagerRepository {
	if sp.wagerRepo == nil {
		if sp.postgres() {
			sp.wagerRepo = wager_repo.NewWagerRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		} else {
			sp.wagerRepo = memory.NewWagerRepository()
		}
	}
	return sp.wagerRepo
}

func (sp *ServiceProvider) RoomRepo(ctx context.Context) repository.RoomRepository {
	if sp.roomRepo == nil {
		if sp.postgres() {
			sp.roomRepo = room_repo.NewRoomRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		} else {
			sp.roomRepo = memory.NewRoomRepository()
		}
	}
	return sp.roomRepo
}

func (sp *ServiceProvider) HistoryRepo(ctx context.Context) repository.HistoryRepository {
	if sp.historyRepo == nil {
		if sp.postgres() {
			sp.historyRepo = history_repo.NewHistoryRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		} else {
			sp.historyRepo = memory.NewHistoryRepository()
		}
	}
	return sp.historyRepo
}

func (sp *ServiceProvider) PotRepo(ctx context.Context) repository.PotRepository {
	if sp.potRepo == nil {
		if sp.postgres() {
			sp.potRepo = pot_repo.NewPotRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		} else {
			sp.potRepo = memory.NewPotRepository()
		}
	}
	return sp.potRepo
}

// SeedRepo - сиды раундов лежат рядом с историей, чтобы реплики публиковали один коммит
func (sp *ServiceProvider) SeedRepo(ctx context.Context) repository.SeedRepository {
	if sp.seedRepo == nil {
		if sp.postgres() {
			sp.seedRepo = seed_repo.NewSeedRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		} else {
			sp.seedRepo = memory.NewSeedRepository()
		}
	}
	return sp.seedRepo
}

// RoundLocker - Redis при нескольких репликах, иначе захват в памяти процесса
func (sp *ServiceProvider) RoundLocker(ctx context.Context) repository.RoundLocker {
	if sp.locker == nil {
		if sp.RedisCfg().Enabled() {
			owner := uuid.NewString()
			sp.locker = claim_repo.NewRoundLocker(sp.RedisClient(ctx), owner, 2*sp.GameCfg().RoundDuration())
			sp.Logger().Info("using redis round locker", zap.String("owner", owner))
		} else {
			sp.locker = memory.NewRoundLocker()
		}
	}
	return sp.locker
}

// Bus - шина событий с потребителями: журнал, метрики, ретрансляция в websocket
func (sp *ServiceProvider) Bus() *event.Bus {
	if sp.bus == nil {
		bus := event.NewBus()
		event.AttachLogger(bus, sp.Logger())
		event.AttachMetrics(bus)
		sp.Hub().Attach(bus)
		sp.bus = bus
	}
	return sp.bus
}

func (sp *ServiceProvider) Hub() *ws.Hub {
	if sp.hub == nil {
		sp.hub = ws.NewHub(sp.Logger())
	}
	return sp.hub
}

func (sp *ServiceProvider) Fairness(ctx context.Context) service.FairnessProvider {
	if sp.fairness == nil {
		sp.fairness = fairness.NewProvider(sp.GameCfg().Fairness(), sp.SeedRepo(ctx))
	}
	return sp.fairness
}

func (sp *ServiceProvider) RoomService(ctx context.Context) service.RoomService {
	if sp.roomServ == nil {
		sp.roomServ = room.NewRoomService(sp.RoomRepo(ctx), sp.Logger())
	}
	return sp.roomServ
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(
			sp.AccountRepo(ctx),
			sp.WagerRepo(ctx),
			sp.PotRepo(ctx),
			sp.RoomService(ctx),
			sp.TXManager(ctx),
			sp.GameCfg(),
			sp.Clock(),
			sp.Logger(),
		)
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) SettlementService(ctx context.Context) service.SettlementService {
	if sp.settlementServ == nil {
		sp.settlementServ = settlement.NewSettlementService(settlement.Deps{
			WagerRepo:   sp.WagerRepo(ctx),
			AccountRepo: sp.AccountRepo(ctx),
			RoomRepo:    sp.RoomRepo(ctx),
			HistoryRepo: sp.HistoryRepo(ctx),
			PotRepo:     sp.PotRepo(ctx),
			Fairness:    sp.Fairness(ctx),
			TxManager:   sp.TXManager(ctx),
			Publisher:   sp.Bus(),
			Config:      sp.GameCfg(),
			Clock:       sp.Clock(),
			Log:         sp.Logger(),
		})
	}
	return sp.settlementServ
}

func (sp *ServiceProvider) AuthService() service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.GameCfg().Operators(), sp.JWTCfg(), sp.Logger())
	}
	return sp.authServ
}

func (sp *ServiceProvider) Scheduler(ctx context.Context) *scheduler.Scheduler {
	if sp.scheduler == nil {
		sp.scheduler = scheduler.New(
			sp.RoomService(ctx),
			sp.SettlementService(ctx),
			sp.RoundLocker(ctx),
			sp.Bus(),
			sp.GameCfg(),
			sp.Clock(),
			sp.Logger(),
		)
	}
	return sp.scheduler
}

func (sp *ServiceProvider) Jobs(ctx context.Context) *jobs.Manager {
	if sp.jobs == nil {
		m := jobs.New()
		m.Register(sp.Scheduler(ctx))
		m.Register(jobs.NewPotSampler(sp.LedgerService(ctx), potSampleInterval, sp.Logger()))
		sp.jobs = m
	}
	return sp.jobs
}

func (sp *ServiceProvider) AuthHandler() *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{Serv: sp.AuthService(), Log: sp.Logger()})
	}
	return sp.authHand
}

func (sp *ServiceProvider) WagerHandler(ctx context.Context) *wagerAPI.Handler {
	if sp.wagerHand == nil {
		sp.wagerHand = wagerAPI.NewHandler(wagerAPI.HandlerDeps{Serv: sp.LedgerService(ctx), Log: sp.Logger()})
	}
	return sp.wagerHand
}

func (sp *ServiceProvider) AccountHandler(ctx context.Context) *accountAPI.Handler {
	if sp.accountHand == nil {
		sp.accountHand = accountAPI.NewHandler(accountAPI.HandlerDeps{Serv: sp.LedgerService(ctx), Log: sp.Logger()})
	}
	return sp.accountHand
}

func (sp *ServiceProvider) RoomHandler(ctx context.Context) *roomAPI.Handler {
	if sp.roomHand == nil {
		sp.roomHand = roomAPI.NewHandler(roomAPI.HandlerDeps{Serv: sp.RoomService(ctx), Log: sp.Logger()})
	}
	return sp.roomHand
}

func (sp *ServiceProvider) RoundHandler(ctx context.Context) *roundAPI.Handler {
	if sp.roundHand == nil {
		sp.roundHand = roundAPI.NewHandler(roundAPI.HandlerDeps{Serv: sp.SettlementService(ctx), Log: sp.Logger()})
	}
	return sp.roundHand
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(mw.Logger(sp.Logger()))
		r.Use(middleware.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			resp.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Handle("/metrics", promhttp.Handler())
		r.Post("/auth/token", sp.AuthHandler().Token)

		secret := sp.JWTCfg().AccessTokenSecretKey()

		r.With(mw.Auth(secret)).Get("/events", sp.Hub().ServeHTTP)

		wagerHandler := sp.WagerHandler(ctx)
		accountHandler := sp.AccountHandler(ctx)
		roundHandler := sp.RoundHandler(ctx)
		roomHandler := sp.RoomHandler(ctx)

		r.Route("/api", func(rr chi.Router) {
			rr.Use(mw.Auth(secret))

			rr.Post("/rooms/{roomID}/wagers", wagerHandler.Place)
			rr.Get("/accounts/{accountID}", accountHandler.Get)
			rr.Get("/rooms/{roomID}/history", roundHandler.History)
			rr.Get("/rooms/{roomID}/rounds/{epoch}", roundHandler.Get)
			rr.Post("/fairness/verify", roundHandler.Verify)

			// Admin endpoints
			rr.Route("/admin", func(ar chi.Router) {
				ar.Use(mw.RequireRole(model.RoleOperator))

				ar.Post("/rooms/{roomID}/activate", roomHandler.Activate)
				ar.Post("/rooms/{roomID}/deactivate", roomHandler.Deactivate)
				ar.Put("/rooms/{roomID}/forced-outcome", roomHandler.SetForced)
				ar.Delete("/rooms/{roomID}/forced-outcome", roomHandler.ClearForced)
				ar.Post("/accounts/{accountID}/credit", accountHandler.Credit)
				ar.Get("/accounts", accountHandler.Top)
				ar.Get("/pot", accountHandler.Pot)
			})
		})

		sp.router = r
	}

	return sp.router
}

// Close - освобождение соединений после остановки
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.redisClient != nil {
		_ = sp.redisClient.Close()
	}
}

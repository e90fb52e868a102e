package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/engine/baccarat"
	"go-stakehouse/internal/engine/coinflip"
	"go-stakehouse/internal/engine/dice"
	"go-stakehouse/internal/engine/holdem"
	"go-stakehouse/internal/engine/keno"
	"go-stakehouse/internal/engine/roulette"
	"go-stakehouse/internal/engine/sicbo"
	"go-stakehouse/internal/engine/slots"
	"go-stakehouse/internal/event"
	"go-stakehouse/internal/http-server/handlers/provably_fair"
	"go-stakehouse/internal/http-server/handlers/round/play"
	"go-stakehouse/internal/http-server/handlers/session"
	"go-stakehouse/internal/http-server/handlers/user/balance"
	"go-stakehouse/internal/http-server/middleware/logger"
	"go-stakehouse/internal/ledger"
	"go-stakehouse/internal/lib/logger/handler/slogpretty"
	"go-stakehouse/internal/lib/logger/sl"
	"go-stakehouse/internal/repository"
	"go-stakehouse/internal/rng"
	"go-stakehouse/internal/storage/mysql"
	"golang.org/x/exp/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	eventWorkers   = 4
	eventQueueSize = 256
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting api server", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	provider := rng.NewProvider()

	eng := engine.New()
	eng.Register(config.Baccarat, baccarat.New(provider))
	eng.Register(config.Holdem, holdem.New(provider))
	eng.Register(config.SicBo, sicbo.New(provider))
	eng.Register(config.Keno, keno.New(provider))
	eng.Register(config.Slots, slots.New(provider))
	eng.Register(config.Dice, dice.New(provider))
	eng.Register(config.CoinFlip, coinflip.New(provider))
	eng.Register(config.Roulette, roulette.New(provider))

	var (
		balances    ledger.BalanceStore
		rounds      ledger.RoundStore
		commitments provably_fair.CommitmentStore
		disclosures provably_fair.DisclosureFinder
	)

	if cfg.Storage.DSN != "" {
		db, err := mysql.Open(cfg.Storage.DSN)
		if err != nil {
			log.Error("failed to init storage", sl.Err(err))
			os.Exit(1)
		}

		seedRepo := repository.NewSeedRepository(db)

		balances = repository.NewBalanceRepository(db)
		rounds = repository.NewRoundRepository(db)
		commitments = seedRepo
		disclosures = seedRepo

		log.Info("mysql storage attached")
	} else {
		balances = ledger.NewMemoryStore()
		rounds = ledger.NewMemoryRounds()

		log.Info("in-memory storage attached")
	}

	sessions := ledger.NewSessionRegistry(cfg.Engine.SessionTimeout)

	book, err := ledger.New(log, cfg.Engine, eng, balances, rounds, sessions)
	if err != nil {
		log.Error("failed to init ledger", sl.Err(err))
		os.Exit(1)
	}

	wireSettlementEvents(log, cfg, book)

	seedBook := provably_fair.NewSeedBook(log, commitments)

	playHandler := play.NewPlay(log, book, seedBook)
	verifier := provably_fair.NewVerifier(log)
	seeds := provably_fair.NewSeeds(log, seedBook)
	sessionHandler := session.NewSession(log, book)
	balanceHandler := balance.NewBalance(log, book)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/games/{game}/play", playHandler.New())
	router.Post("/provably-fair/verify", verifier.New())
	router.Get("/provably-fair/{uuid}/commitment", seeds.Commitment())
	router.Post("/provably-fair/{uuid}/rotate", seeds.Rotate())
	router.Post("/provably-fair/{uuid}/client-seed", seeds.ClientSeed())

	// Disclosure lookups need the persisted commitment log.
	if disclosures != nil {
		router.Get("/provably-fair/disclosures/{hash}",
			provably_fair.NewDisclosures(log, disclosures).Show())
	}

	router.Post("/sessions/start", sessionHandler.Start())
	router.Post("/sessions/{uuid}/end", sessionHandler.End())
	router.Get("/users/{uuid}/balance", balanceHandler.Show())
	router.Get("/users/{uuid}/rounds", balanceHandler.History())

	log.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err = srv.ListenAndServe(); err != nil {
		log.Error("server failed", sl.Err(err))
	}

	log.Error("server stopped")
}

// wireSettlementEvents dials the ws hub and subscribes a reporter that
// pushes every settled round through the worker pool. Without a
// reachable hub the api still settles rounds, just silently.
func wireSettlementEvents(log *slog.Logger, cfg *config.Config, book *ledger.Ledger) {
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+cfg.WSServer.Address+"/ws", nil)
	if err != nil {
		log.Warn("settlement events disabled, ws hub unreachable", sl.Err(err))

		return
	}

	publisher := event.NewPublisher(log, conn)

	queue := event.NewJobQueue(eventQueueSize)
	event.NewWorkerPool(eventWorkers, queue).Start()

	book.Subscribe(event.NewSettlementReporter(queue, publisher))

	log.Info("settlement events enabled", slog.String("hub", cfg.WSServer.Address))
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlogLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlogLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

package api

import (
	healthAPI "monthledger/internal/app/server/api/http/health"
	ledgerAPI "monthledger/internal/app/server/api/http/ledger"
	"monthledger/internal/app/server/api/http/middleware"
	"monthledger/internal/app/server/api/http/middleware/auth"
	"monthledger/internal/app/server/api/http/middleware/logger"
	userAPI "monthledger/internal/app/server/api/http/user"
	"monthledger/internal/domain/ledger"
	"monthledger/internal/domain/session"
	"monthledger/internal/domain/user"
	"monthledger/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Ledger *ledgerAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("MonthLedger API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Ledger.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewCredentialsValidator(), log)

	middlewares.Add(loggerMW.Middleware())
	publicMWs := middlewares.GetAllAndClear()
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, publicMWs, middlewares.GetAllAndClear())

	ledgerRepo := postgres.NewLedgerRepository(storage, log)
	ledgerService := ledger.NewService(ledgerRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	ledgerHandler := ledgerAPI.NewHandler(ledgerService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Ledger: ledgerHandler,
	}
}

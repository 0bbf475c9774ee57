package app

import (
	"net/http"

	"fintrack-go/internal/config"
	"fintrack-go/internal/db"
	analyticsdomain "fintrack-go/internal/domain/analytics"
	billsdomain "fintrack-go/internal/domain/bills"
	bucketsdomain "fintrack-go/internal/domain/buckets"
	expensesdomain "fintrack-go/internal/domain/expenses"
	userdomain "fintrack-go/internal/domain/user"
	"fintrack-go/internal/notify"
	analyticsrepo "fintrack-go/internal/repository/postgres/analytics"
	billsrepo "fintrack-go/internal/repository/postgres/bills"
	bucketsrepo "fintrack-go/internal/repository/postgres/buckets"
	categoriesrepo "fintrack-go/internal/repository/postgres/categories"
	expensesrepo "fintrack-go/internal/repository/postgres/expenses"
	userrepo "fintrack-go/internal/repository/postgres/user"
	"fintrack-go/internal/transport/httpserver"
	"fintrack-go/internal/transport/httpserver/handler"
	"fintrack-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	notifier := notify.NewLogNotifier(log)

	categories := categoriesrepo.NewPostgres(dbConn)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))

	billsService := billsdomain.NewService(billsrepo.NewPostgres(dbConn), users, categories, notifier)
	bucketsService := bucketsdomain.NewService(bucketsrepo.NewPostgres(dbConn), notifier)
	expensesService := expensesdomain.NewService(
		expensesrepo.NewPostgres(dbConn),
		categories,
		notifier,
		expensesdomain.Thresholds{
			AlertPercent:    cfg.Budgets.AlertPercent,
			ExceededPercent: cfg.Budgets.ExceededPercent,
		},
	)
	analyticsService := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn))

	handlers := handler.New(billsService, expensesService, bucketsService, analyticsService, categories, log)

	log.Info("app: initializing http server")
	router := httpserver.NewRouter(cfg, handlers, users, log)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	allocationapp "github.com/akrmotors/backoffice/internal/application/allocation"
	financeapp "github.com/akrmotors/backoffice/internal/application/finance"
	inventoryapp "github.com/akrmotors/backoffice/internal/application/inventory"
	partnerapp "github.com/akrmotors/backoffice/internal/application/partner"
	"github.com/akrmotors/backoffice/internal/infrastructure/auth"
	"github.com/akrmotors/backoffice/internal/infrastructure/config"
	"github.com/akrmotors/backoffice/internal/infrastructure/event"
	"github.com/akrmotors/backoffice/internal/infrastructure/logger"
	"github.com/akrmotors/backoffice/internal/infrastructure/persistence"
	"github.com/akrmotors/backoffice/internal/infrastructure/scheduler"
	"github.com/akrmotors/backoffice/internal/interfaces/http/handler"
	"github.com/akrmotors/backoffice/internal/interfaces/http/middleware"
	"github.com/akrmotors/backoffice/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AKR Back Office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Postgres schemas are managed by cmd/migrate; sqlite development
	// databases are migrated in place.
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	// Repositories
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	unitRepo := persistence.NewGormInventoryUnitRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	depositRepo := persistence.NewGormBankDepositRepository(db.DB)
	allocator := persistence.NewSequenceAllocator(db.DB)

	// Application services
	couponService := allocationapp.NewCouponService(couponRepo, allocator, log)
	reminderService := allocationapp.NewChequeReminderService(couponRepo)
	inventoryService := inventoryapp.NewInventoryService(vehicleRepo, unitRepo, couponRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo, allocator)
	ledgerService := financeapp.NewLedgerService(entryRepo, depositRepo)
	reconciliationService := financeapp.NewReconciliationService(couponRepo, entryRepo, depositRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Event bus with cross-context handlers. A recorded sale drives the
	// stock resync and the customer upsert; both stay out of the sale
	// transaction so a failure never loses the sale record.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(allocationapp.NewStockResyncHandler(inventoryService, log))
	eventBus.Subscribe(allocationapp.NewCustomerUpsertHandler(customerService, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	couponService.SetEventPublisher(eventBus)

	// Cheque release reminder sweep
	if cfg.Reminder.Enabled {
		reminderScheduler := scheduler.NewChequeReminderScheduler(reminderService, log, scheduler.ChequeReminderSchedulerConfig{
			Enabled:       cfg.Reminder.Enabled,
			SweepInterval: cfg.Reminder.SweepInterval,
			SweepTimeout:  time.Minute,
		})
		if err := reminderScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cheque reminder scheduler", zap.Error(err))
		}
		defer func() {
			if err := reminderScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping cheque reminder scheduler", zap.Error(err))
			}
		}()
		log.Info("Cheque reminder scheduler started",
			zap.Duration("sweep_interval", cfg.Reminder.SweepInterval),
		)
	}

	// HTTP handlers
	couponHandler := handler.NewCouponHandler(couponService, reconciliationService)
	chequeHandler := handler.NewChequeReminderHandler(reminderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	customerHandler := handler.NewCustomerHandler(customerService)
	financeHandler := handler.NewFinanceHandler(ledgerService, reconciliationService)
	authHandler := handler.NewAuthHandler(jwtService, cfg.Auth.Username, cfg.Auth.Password)
	systemHandler := handler.NewSystemHandler(db, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine)
	r.Register(authHandler).
		Register(couponHandler).
		Register(chequeHandler).
		Register(inventoryHandler).
		Register(customerHandler).
		Register(financeHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "gearroom-backend/internal/adapter/http"
	mw "gearroom-backend/internal/adapter/middleware"
	"gearroom-backend/internal/adapter/repository/mysql"
	"gearroom-backend/internal/config"
	"gearroom-backend/internal/domain/audit"
	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/uow"
	"gearroom-backend/internal/domain/user"
	"gearroom-backend/internal/infrastructure/cache"
	"gearroom-backend/internal/infrastructure/db"
	"gearroom-backend/internal/usecase/account"
	"gearroom-backend/internal/usecase/engine"
	"gearroom-backend/internal/usecase/registry"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&equipment.Category{},
		&equipment.Equipment{},
		&user.User{},
		&transaction.Transaction{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	repos := uow.Repos{
		Equipment:    mysql.NewEquipmentRepository(gdb),
		Users:        mysql.NewUserRepository(gdb),
		Transactions: mysql.NewTransactionRepository(gdb),
	}
	guow := mysql.NewGormUoW(gdb)
	emitter := audit.NewLogEmitter()

	registryUC := registry.NewUsecase(guow, repos, emitter)
	engineUC := engine.NewUsecase(guow, repos, emitter)
	accountUC := account.NewUsecase(guow, repos, emitter)

	h := httpadp.NewHandler()
	eqh := httpadp.NewEquipmentHandler(registryUC)
	txh := httpadp.NewTransactionHandler(engineUC)
	uh := httpadp.NewUserHandler(accountUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	idemp := mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	e.POST("/checkouts", txh.Checkout, idemp)
	e.POST("/checkins", txh.Checkin, idemp)
	e.GET("/transactions/overdue", txh.Overdue)

	e.GET("/equipment", eqh.List)
	e.GET("/equipment/:id", eqh.Get)
	e.POST("/equipment", eqh.Create, idemp)
	e.PUT("/equipment/:id", eqh.Update, idemp)
	e.DELETE("/equipment/:id", eqh.Delete, idemp)
	e.POST("/equipment/:id/clear-relabel", eqh.ClearRelabel, idemp)

	e.POST("/users", uh.Create, idemp)
	e.GET("/users", uh.List)
	e.GET("/users/:id", uh.Get)
	e.DELETE("/users/:id", uh.Delete, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "loancore/internal/adapter/http"
	"loancore/internal/adapter/middleware"
	"loancore/internal/adapter/repository/mysql"
	"loancore/internal/config"
	accountDomain "loancore/internal/domain/account"
	appDomain "loancore/internal/domain/application"
	auditDomain "loancore/internal/domain/audit"
	loanDomain "loancore/internal/domain/loan"
	ruleDomain "loancore/internal/domain/rule"
	userDomain "loancore/internal/domain/user"
	"loancore/internal/infrastructure/cache"
	"loancore/internal/infrastructure/db"
	"loancore/internal/scheduler"
	accountUC "loancore/internal/usecase/account"
	applicationUC "loancore/internal/usecase/application"
	loanUC "loancore/internal/usecase/loan"
	settlementUC "loancore/internal/usecase/settlement"
	"loancore/pkg/clock"
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
		&userDomain.User{},
		&appDomain.Application{},
		&loanDomain.ActiveLoan{},
		&loanDomain.Installment{},
		&accountDomain.Account{},
		&accountDomain.Transaction{},
		&auditDomain.Entry{},
		&ruleDomain.ScoreRange{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	apps := mysql.NewApplicationRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	accounts := mysql.NewAccountRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	rules := mysql.NewRuleRepository(gdb)
	unit := mysql.NewGormUoW(gdb)
	clk := clock.System{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rules.Seed(ctx); err != nil {
		log.Fatalf("rule seed: %v", err)
	}

	appUsecase := applicationUC.NewUsecase(apps, users, rules, unit, clk)
	loanUsecase := loanUC.NewUsecase(loans, unit, clk)
	acctUsecase := accountUC.NewUsecase(accounts, unit, clk)
	settleUsecase := settlementUC.NewUsecase(loans, unit, clk, cfg.SettlementWorkers)

	runner := scheduler.New(settleUsecase, cfg.SettlementInterval)
	runner.Start(ctx)

	h := httpadp.NewHandler()
	appHandler := httpadp.NewApplicationHandler(appUsecase)
	loanHandler := httpadp.NewLoanHandler(loanUsecase)
	acctHandler := httpadp.NewAccountHandler(acctUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/loans", appHandler.Create, idem)
	e.GET("/loans/:app_id", appHandler.Get)
	e.GET("/loans/:app_id/decision", appHandler.GetDecision)

	e.POST("/manager/loans/:app_id/confirm", appHandler.Confirm)
	e.POST("/manager/loans/:app_id/decision", appHandler.Decide)
	e.POST("/manager/loans/:app_id/escalate", appHandler.Escalate)

	e.GET("/admin/loans/escalated", appHandler.ListEscalated)
	e.POST("/admin/loans/:app_id/decision", appHandler.AdminDecide)
	e.POST("/admin/loans/:app_id/finalize", loanHandler.Finalize)

	e.GET("/active-loans/:loan_id", loanHandler.Get)
	e.GET("/active-loans/:loan_id/schedule", loanHandler.Schedule)

	e.POST("/accounts/deposit", acctHandler.Deposit)
	e.GET("/accounts/balance", acctHandler.Balance)

	go func() {
		addr := ":" + cfg.AppPort
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	runner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "loanserve/internal/adapter/http"
	mw "loanserve/internal/adapter/middleware"
	mysqlrepo "loanserve/internal/adapter/repository/mysql"
	"loanserve/internal/config"
	"loanserve/internal/domain/notify"
	"loanserve/internal/infrastructure/cache"
	"loanserve/internal/infrastructure/db"
	"loanserve/internal/infrastructure/pubsub"
	loanuc "loanserve/internal/usecase/loan"
	rateuc "loanserve/internal/usecase/rate"
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

	// REDIS_ADDR unset means brokerless: notifications stay in-process and
	// the idempotency guard is skipped.
	var notifier notify.Notifier = pubsub.NewMemoryBroker()
	var idemp echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		notifier = pubsub.NewRedisNotifier(rdb)
		idemp = mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	} else {
		log.Println("redis: no REDIS_ADDR, using in-process notifier")
	}

	loanRepo := mysqlrepo.NewLoanRepository(gdb)
	rateRepo := mysqlrepo.NewRateRepository(gdb)

	rates := rateuc.NewUsecase(rateRepo, cfg.DefaultAnnualRate)
	loans := loanuc.NewUsecase(loanRepo, rates, notifier)

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loans)
	ah := httpadp.NewAdminHandler(loans, rates)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	if len(cfg.CORSAllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSAllowedOrigins,
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "Ax-Request-Id"},
		}))
	}

	// routes
	e.GET("/health", h.Health)

	auth := mw.Auth([]byte(cfg.JWTSecret))

	loansGrp := e.Group("/loans", auth)
	if idemp != nil {
		loansGrp.POST("", lh.Apply, idemp)
	} else {
		loansGrp.POST("", lh.Apply)
	}
	loansGrp.GET("/my", lh.ListMine)
	loansGrp.GET("/:loan_id", lh.Get)
	loansGrp.GET("/:loan_id/schedule", lh.Schedule)

	admin := e.Group("/admin", auth, mw.RequireAdmin())
	admin.GET("/loans", ah.ListLoans)
	admin.PUT("/loans/:loan_id/status", ah.UpdateStatus)
	admin.GET("/interest-rates", ah.ListRates)
	admin.GET("/interest-rates/:category", ah.GetRate)
	admin.PUT("/interest-rates/:category", ah.UpsertRate)
	admin.DELETE("/interest-rates/:category", ah.DeleteRate)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}

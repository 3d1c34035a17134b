package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/audit"
	"github.com/asm2me/Asterisk-Reporting/internal/auth"
	"github.com/asm2me/Asterisk-Reporting/internal/config"
	"github.com/asm2me/Asterisk-Reporting/internal/httpapi"
	"github.com/asm2me/Asterisk-Reporting/internal/report"
	"github.com/asm2me/Asterisk-Reporting/pkg/logger"
	"github.com/asm2me/Asterisk-Reporting/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenDB(rootCtx, cfg.DB.Driver, cfg.DSN(), utils.DBPoolConfig{})
	if err != nil {
		log.Error("cdr store init failed", "err", err, "driver", cfg.DB.Driver)
		os.Exit(1)
	}
	defer db.Close()

	// Redis is an optional cache for gateway discovery. The service runs
	// without it against configured gateway lists.
	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	repo := report.NewSQLRepository(db, cfg.CDR.Table, cfg.DB.Driver)
	gateways := report.NewGatewayResolver(repo, cfg.CDR.Gateways, rdb)
	reports := report.NewService(repo, gateways)
	auditSvc := audit.NewService(audit.NewMemoryRepo())

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	h := httpapi.Handlers{
		Auth:    authManager,
		Reports: reports,
		Audit:   auditSvc,
	}
	registerRoutes(r, h, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"todo_api/internal/auth"
	"todo_api/internal/config"
	"todo_api/internal/database"
	"todo_api/internal/server"
	"todo_api/internal/telemetry"
)

func main() {
	// 主流程：加载配置、连接数据库、启动 HTTP 服务并等待退出信号
	cfg, err := config.Load(":8080")
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := telemetry.NewLogger(os.Stdout, "todo-api", cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("db connect failed", "err", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := database.Migrate(ctx, db, cfg.DatabaseDriver)
		cancel()
		if err != nil {
			logger.Fatal("db migrate failed", "err", err)
		}
	}

	credentials, err := auth.NewStaticCredentials(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		logger.Fatal("invalid credentials config", "err", err)
	}

	tokens := auth.NewTokenService(auth.TokenConfig{
		Key:      cfg.JWT.Key,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Expiry:   cfg.JWT.Expiry(),
	})

	handler := server.NewRouter(server.Options{
		DB:          db,
		DBDriver:    cfg.DatabaseDriver,
		Tokens:      tokens,
		Credentials: credentials,
		Metrics:     telemetry.NewMetrics(),
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	go func() {
		// 启动 HTTP 服务，非正常关闭才记录错误
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	// 监听系统信号，触发优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	// 给予超时时间完成正在处理的请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

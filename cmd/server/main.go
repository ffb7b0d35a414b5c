package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/aolserver/internal/config"
	"github.com/hongminglow/aolserver/internal/logger"
	"github.com/hongminglow/aolserver/internal/server"
	"github.com/hongminglow/aolserver/internal/storage"
	"github.com/hongminglow/aolserver/internal/storage/postgres"
	"github.com/hongminglow/aolserver/internal/storage/sqlite"
)

func main() {
	initDB := flag.Bool("initdb", false, "drop and recreate the users table, then exit")
	addr := flag.String("a", "", "override HOST:PORT to listen on")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		if cfg.Host, cfg.Port, err = net.SplitHostPort(*addr); err != nil {
			log.Fatalf("parse -a: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync(zlog)
	zap.ReplaceGlobals(zlog.Desugar())
	if envErr != nil {
		zlog.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	userStore, err := openStore(ctx, cfg)
	if err != nil {
		zlog.Fatalw("init database", "error", err)
	}
	defer userStore.Close()

	if *initDB {
		if err := userStore.Init(ctx, true); err != nil {
			zlog.Fatalw("reinitialize database", "error", err)
		}
		zlog.Info("database initialized")
		return
	}

	srv := server.New(cfg, userStore, zlog)

	go func() {
		zlog.Infow("account server listening", "addr", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatalw("http server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zlog.Errorw("graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.UserStore, error) {
	if cfg.UsePostgres() {
		store, err := postgres.NewUserStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := sqlite.NewUserStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return store, nil
}

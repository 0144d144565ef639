package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/akulikov/class_registration/internal/blacklist"
	"github.com/akulikov/class_registration/internal/config"
	"github.com/akulikov/class_registration/internal/db"
	"github.com/akulikov/class_registration/internal/events"
	"github.com/akulikov/class_registration/internal/httpserver"
	"github.com/akulikov/class_registration/internal/logging"
	"github.com/akulikov/class_registration/internal/mfa"
	mw "github.com/akulikov/class_registration/internal/middleware"
	"github.com/akulikov/class_registration/internal/repo"
	"github.com/akulikov/class_registration/internal/search"
	"github.com/akulikov/class_registration/internal/service"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if err := cfg.ValidateSecret(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var bl blacklist.Blacklist
	var mfaStore mfa.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		bl = blacklist.NewRedis(rdb, service.RefreshTTL)
		mfaStore = mfa.NewRedisStore(rdb)
	} else {
		bl = blacklist.NewMemory()
		mfaStore = mfa.NewMemoryStore()
	}

	tokenSvc, err := service.NewTokenService(cfg.JWTSecret, bl)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
	}

	store := &repo.GormRepo{DB: gormDB}

	catalogSvc := &service.CatalogService{Repo: store}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Printf("warning: search disabled: %v", err)
		} else {
			catalogSvc.ES = esClient
		}
	}

	authSvc := &service.AuthService{
		Repo:     store,
		Tokens:   tokenSvc,
		MFA:      mfa.NewManager(mfaStore),
		Producer: producer,
	}
	regSvc := &service.RegistrationService{Repo: store, Producer: producer}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(mw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:         &httpserver.AuthHTTP{Svc: authSvc},
		RegistrationHandler: &httpserver.RegistrationHTTP{Svc: regSvc},
		CatalogHandler:      &httpserver.CatalogHTTP{Svc: catalogSvc},
		Tokens:              tokenSvc,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("registration listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("registration stopped")
}

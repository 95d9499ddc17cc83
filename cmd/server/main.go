package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	coreauth "github.com/tedas/villa_api/internal/auth"
	"github.com/tedas/villa_api/internal/config"
	"github.com/tedas/villa_api/internal/es"
	"github.com/tedas/villa_api/internal/handlers"
	authhdl "github.com/tedas/villa_api/internal/handlers/auth"
	"github.com/tedas/villa_api/internal/logging"
	loggingmw "github.com/tedas/villa_api/internal/middleware/logging"
	"github.com/tedas/villa_api/internal/mykafka"
	"github.com/tedas/villa_api/internal/repo"
	httpserver "github.com/tedas/villa_api/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	store := repo.NewGormStore(db)

	tokens := &coreauth.TokenService{
		Store:      store,
		Secret:     []byte(configuration.JWT_SECRET),
		Audience:   configuration.JWT_AUDIENCE,
		AccessTTL:  configuration.ACCESS_TTL,
		RefreshTTL: configuration.REFRESH_TTL,
	}
	verifier := &coreauth.CredentialVerifier{Store: store}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "villa"}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Tokens:             tokens,
		AuthHandler:        &authhdl.AuthHandler{Store: store, Verifier: verifier, Tokens: tokens, Producer: prod},
		VillaHandler:       &handlers.VillaHandler{DB: db, Producer: prod},
		VillaNumberHandler: &handlers.VillaNumberHandler{DB: db},
		UploadHandler:      &handlers.UploadHandler{DB: db, ImageDir: configuration.IMAGE_DIR},
		SearchHandler:      searchHandler,
		ImageDir:           configuration.IMAGE_DIR,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}

package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gig-marketplace-api/internal/config"
	"gig-marketplace-api/internal/controller"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/pkg/http_server"
	"gig-marketplace-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"github.com/redis/go-redis/v9"
)

func runMigrations(postgresDB *postgres.Postgres, sourceUrl string, databaseName string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func Run() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("cannot load config: ", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	runMigrations(postgresDB, cfg.MigrationsDir, cfg.DatabaseName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notify.NewHub()
	var sender notify.Sender = hub
	if cfg.RedisAddr != "" {
		log.Println("Enabling Redis notification relay...")
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		relay := notify.NewRedisRelay(client, hub, "", logger)
		go relay.Run(ctx)
		sender = relay
	}
	dispatcher := notify.NewDispatcher(sender, logger)

	m := metrics.New()
	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, dispatcher, m, logger)
	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, hub, m)

	log.Println("Starting server...")
	httpServer := http_server.New(handler, cfg.ServerAddress)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Println("Server error: ", err)
	}

	log.Println("Shutting down...")
	err = httpServer.Shutdown()
	if err != nil {
		log.Println("Shutdown error: ", err)
	} else {
		log.Println("Successful shutdown")
	}
}

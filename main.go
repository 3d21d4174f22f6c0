package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gostreams/adapters/api"
	"gostreams/adapters/memory"
	"gostreams/adapters/postgres"
	"gostreams/app"
	"gostreams/domain/stream"
	"gostreams/internal"
	"gostreams/internal/compile"
	"gostreams/internal/config"
	"gostreams/internal/errors"
	"gostreams/internal/migration"
	"gostreams/internal/randomstreams"
	"gostreams/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// defaultDraws are served when STREAM_DRAWS is unset
var defaultDraws = []string{"uniform:2x2", "normal:3"}

// initDatabase connects and migrates the checkpoint schema
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to ping database", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

// buildModule registers the configured draws and initializes them
func buildModule(appConfig *config.Config, logger *internal.Logger) (*compile.Made, error) {
	raw := defaultDraws
	if env := os.Getenv("STREAM_DRAWS"); env != "" {
		raw = strings.Fields(env)
	}
	specs := make([]stream.DrawSpec, 0, len(raw))
	for _, r := range raw {
		spec, err := stream.ParseDrawSpec(r)
		if err != nil {
			return nil, errors.Wrapf(err, "STREAM_DRAWS entry %q", r)
		}
		specs = append(specs, spec)
	}

	random := randomstreams.New(appConfig.Streams.MasterSeed, randomstreams.WithLogger(logger))
	made, err := compile.Build(random, "sample", specs)
	if err != nil {
		return nil, err
	}
	random.Initialize()
	return made, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	var repo ports.CheckpointRepository
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewCheckpointRepository(db)
		logger.Info("checkpoints stored in postgres")
	} else {
		repo = memory.NewCheckpointRepository()
		logger.Info("DATABASE_URL not set, checkpoints kept in memory")
	}

	made, err := buildModule(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to build streams: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           api.NewServer(made, app.NewCheckpointService(repo, logger), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("serving %d streams on port %s (master seed %d)", made.Random().Len(), appConfig.Server.Port, appConfig.Streams.MasterSeed)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}

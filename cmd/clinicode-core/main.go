package main

// @title           Clinicode Core API
// @version         1.0
// @description     ICD-10-CM code extraction API. Clinicode Core matches unstructured operative-report text against the ICD-10-CM code table and returns ranked, justified candidate codes.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	authadapter "github.com/clinicode-labs/clinicode-core/internal/adapters/driven/auth"
	"github.com/clinicode-labs/clinicode-core/internal/adapters/driven/file"
	"github.com/clinicode-labs/clinicode-core/internal/adapters/driven/postgres"
	redisadapter "github.com/clinicode-labs/clinicode-core/internal/adapters/driven/redis"
	httpserver "github.com/clinicode-labs/clinicode-core/internal/adapters/driving/http"
	"github.com/clinicode-labs/clinicode-core/internal/config"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driving"
	"github.com/clinicode-labs/clinicode-core/internal/core/services"
	"github.com/clinicode-labs/clinicode-core/internal/runtime"
)

var version = "dev"

func main() {
	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	// hash-key needs no configuration at all
	if mode == "hash-key" {
		runHashKey(os.Args[2:])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	cfg.Version = version

	log.Printf("clinicode-core %s starting in %s mode", version, mode)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize PostgreSQL (optional) =====
	var db *postgres.DB
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err = postgres.Connect(ctx, postgres.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("PostgreSQL connected and schema initialized")
	}

	// ===== Corpus source =====
	var source driven.CorpusSource
	var store driven.CorpusStore
	if db != nil {
		store = postgres.NewCorpusStore(db)
	}
	switch cfg.CorpusSource {
	case "postgres":
		source = store
	default:
		source = file.NewCorpusSource(cfg.CorpusPath)
	}

	var abbrevs driven.AbbreviationSource
	if cfg.AbbrevPath != "" {
		abbrevs = file.NewAbbreviationSource(cfg.AbbrevPath)
	}

	registry := runtime.NewRegistry()
	corpusService := services.NewCorpusService(source, abbrevs, store, registry, logger)

	switch mode {
	case "load-corpus":
		if store == nil {
			log.Fatal("load-corpus requires DATABASE_URL")
		}
		if err := corpusService.Populate(ctx); err != nil {
			log.Fatalf("Corpus population failed: %v", err)
		}
		log.Println("Corpus populated")
		return

	case "extract":
		runExtract(ctx, cfg, corpusService, registry, logger, os.Args[2:])
		return

	case "serve", "all":
		// fallthrough to server startup below

	default:
		log.Fatalf("Unknown mode %q (want serve, load-corpus, extract or hash-key)", mode)
	}

	// Corpus errors are fatal at startup; a server without an index
	// cannot extract anything.
	if err := corpusService.Load(ctx); err != nil {
		log.Fatalf("Corpus load failed: %v", err)
	}

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	var cache driven.ResultCache
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = redisadapter.NewResultCache(redisClient)
		log.Println("Redis connected")
	}

	var resultStore driven.ResultStore
	if db != nil {
		resultStore = postgres.NewResultStore(db)
	}

	// ===== Services =====
	extractionService := services.NewExtractionService(
		registry, cache, resultStore,
		time.Duration(cfg.CacheTTLSec)*time.Second, logger)
	batchService := services.NewBatchService(extractionService, cfg.BatchConcurrency, logger)

	var authService = authServiceFor(cfg)
	if authService == nil {
		log.Println("Warning: no API key configured, authentication disabled")
	}

	// ===== HTTP server =====
	serverCfg := httpserver.Config{Host: cfg.Host, Port: cfg.Port, Version: version}
	var dbPinger, redisPinger httpserver.Pinger
	if db != nil {
		dbPinger = db
	}
	if redisClient != nil {
		redisPinger = redisPingAdapter{redisClient}
	}
	server := httpserver.NewServer(serverCfg, authService, extractionService, batchService, corpusService, dbPinger, redisPinger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
	log.Println("clinicode-core stopped")
}

func authServiceFor(cfg config.Config) driving.AuthService {
	if cfg.APIKeyHash == "" {
		return nil
	}
	adapter := authadapter.NewAdapter(cfg.JWTSecret)
	return services.NewAuthService(adapter, cfg.APIKeyHash, 24*time.Hour)
}

// runExtract processes a single report file and prints the result as
// JSON, for scripted use without a running server.
func runExtract(ctx context.Context, cfg config.Config, corpusService driving.CorpusService, registry *runtime.Registry, logger *slog.Logger, args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: clinicode-core extract <report-file> [document-id]")
	}
	path := args[0]
	docID := filepath.Base(path)
	if len(args) > 1 {
		docID = args[1]
	}

	if err := corpusService.Load(ctx); err != nil {
		log.Fatalf("Corpus load failed: %v", err)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read report: %v", err)
	}

	extractionService := services.NewExtractionService(registry, nil, nil, 0, logger)
	result, err := extractionService.Extract(ctx, docID, string(text), cfg.MatchOptions())
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}

// runHashKey prints the bcrypt hash for an API key, for provisioning
// API_KEY_HASH.
func runHashKey(args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: clinicode-core hash-key <api-key>")
	}
	hash, err := authadapter.NewAdapter("").HashAPIKey(args[0])
	if err != nil {
		log.Fatalf("Failed to hash key: %v", err)
	}
	fmt.Println(hash)
}

// redisPingAdapter adapts the redis client's status-returning Ping to
// the server's Pinger.
type redisPingAdapter struct {
	client *redis.Client
}

func (a redisPingAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

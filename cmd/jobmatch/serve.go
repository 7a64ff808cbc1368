package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/agents"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embeddings"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/matching"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/jonathan/jobmatch/internal/server"
)

var (
	servePort       int
	serveConfigFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing profile, job, matching, and application endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Optional JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if serveConfigFile != "" {
		if err := cfg.LoadFile(serveConfigFile); err != nil {
			return err
		}
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	reg := metrics.New()

	provider, err := embeddings.NewGeminiProvider(ctx, cfg.APIKey, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	gateway := embeddings.NewGateway(provider, log, reg)

	weights := matching.DefaultWeights()
	engine := matching.NewEngine(weights, log, reg)
	supplier := db.NewCandidateSupplier(database, weights)

	llmClient, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		MatchLimit:    cfg.MatchLimit,
		MinMatchScore: cfg.MinMatchScore,
	}, server.Deps{
		Logger:   log,
		Metrics:  reg,
		Store:    database,
		Embedder: gateway,
		Engine:   engine,
		Supplier: supplier,
		Analyzer: agents.NewJobAnalyzer(llmClient, log),
		Writer:   agents.NewCoverLetterWriter(llmClient, log),
		Users:    server.NewUserService(database, passwordCfg),
		JWT:      server.NewJWTService(jwtCfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("starting server", zap.Int("port", cfg.Port))
	return srv.Start()
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embeddings"
	"github.com/jonathan/jobmatch/internal/logger"
)

var reembedWorkers int

var reembedCmd = &cobra.Command{
	Use:   "reembed",
	Short: "Recompute stored embeddings for all profiles and active jobs",
	Long: `Recompute every stored embedding from its source text, for use after
changing the embedding model. Profiles and postings whose text is unchanged
still get fresh vectors, since vectors from different models are not
comparable.`,
	RunE: runReembed,
}

func init() {
	reembedCmd.Flags().IntVar(&reembedWorkers, "workers", 4, "Concurrent embedding workers")
	rootCmd.AddCommand(reembedCmd)
}

func runReembed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" || cfg.APIKey == "" {
		return fmt.Errorf("DATABASE_URL and GEMINI_API_KEY are required")
	}
	if reembedWorkers < 1 {
		return fmt.Errorf("workers must be positive, got %d", reembedWorkers)
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return err
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

	provider, err := embeddings.NewGeminiProvider(ctx, cfg.APIKey, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	gateway := embeddings.NewGateway(provider, log, nil)

	profiles, err := database.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	jobs, err := database.ListActiveJobPostings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list job postings: %w", err)
	}

	log.Info("recomputing embeddings",
		zap.Int("profiles", len(profiles)),
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", reembedWorkers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reembedWorkers)

	for i := range profiles {
		p := &profiles[i]
		g.Go(func() error {
			set, err := gateway.EmbedProfile(gctx, p.Skills, p.ExperienceSummary, p.CareerGoals)
			if err != nil {
				return fmt.Errorf("profile %s: %w", p.ID, err)
			}
			if _, err := database.UpsertProfile(gctx, p, set); err != nil {
				return fmt.Errorf("profile %s: %w", p.ID, err)
			}
			log.Debug("profile re-embedded", zap.String("id", p.ID.String()))
			return nil
		})
	}

	for i := range jobs {
		j := &jobs[i]
		g.Go(func() error {
			set, err := gateway.EmbedJob(gctx, j.Description, j.Requirements)
			if err != nil {
				return fmt.Errorf("job %s: %w", j.ID, err)
			}
			if err := database.UpdateJobEmbeddings(gctx, j.ID, set); err != nil {
				return fmt.Errorf("job %s: %w", j.ID, err)
			}
			log.Debug("job re-embedded", zap.String("id", j.ID.String()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("reembed complete")
	return nil
}

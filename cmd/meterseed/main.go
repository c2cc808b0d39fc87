package main

import (
	"fmt"
	"os"
	"time"

	"github.com/smallbiznis/meterseed/internal/config"
	"github.com/smallbiznis/meterseed/internal/logger"
	"github.com/smallbiznis/meterseed/internal/m3ter"
	"github.com/smallbiznis/meterseed/internal/provision"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	catalogPath       string
	checkpointDir     string
	profilePath       string
	logLevel          string
	skipExisting      bool
	partialCheckpoint bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "meterseed",
		Short:         "Staged catalog seeding for a usage-metering platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.catalogPath, "catalog", "", "path to the catalog YAML (default $CATALOG_PATH or catalog.yaml)")
	pf.StringVar(&f.checkpointDir, "checkpoint-dir", "", "directory holding stage checkpoints (default $CHECKPOINT_DIR or .)")
	pf.StringVar(&f.profilePath, "profile", "", "path to the seed profile YAML")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&f.skipExisting, "skip-existing", false, "look entities up by code and adopt existing ids instead of creating duplicates")
	pf.BoolVar(&f.partialCheckpoint, "partial-checkpoint", false, "persist partial account-stage progress for manual reconciliation")

	stages := []struct {
		use   string
		short string
		stage int
	}{
		{"catalog", "Stage 1: provision Product, Meter and Aggregations", provision.StageCatalog},
		{"plans", "Stage 2: provision PlanTemplate, Plan and Pricings", provision.StagePlans},
		{"accounts", "Stage 3: provision Accounts and AccountPlans", provision.StageAccounts},
		{"usage", "Stage 4: synthesize and submit measurement batches", provision.StageUsage},
	}
	for _, s := range stages {
		stage := s.stage
		root.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStage(cmd, f, func(r *provision.Runner) error {
					return r.Run(cmd.Context(), stage)
				})
			},
		})
	}
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run all four stages in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, f, func(r *provision.Runner) error {
				return r.RunAll(cmd.Context())
			})
		},
	})

	return root
}

func runStage(cmd *cobra.Command, f *flags, run func(*provision.Runner) error) error {
	cfg := config.Load()
	applyFlags(&cfg, f, cmd)

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.Sync()

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Error("invalid seed profile", zap.Error(err))
		return err
	}

	client := m3ter.New(m3ter.Options{
		BaseURL:   cfg.APIBaseURL,
		IngestURL: cfg.IngestURL,
		OrgID:     cfg.OrgID,
		AccessKey: cfg.AccessKey,
		APISecret: cfg.APISecret,
		Timeout:   time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
	}, log)

	runner := &provision.Runner{
		API:               client,
		Store:             provision.FileStore{},
		Profile:           profile,
		Log:               log,
		CatalogPath:       cfg.CatalogPath,
		CheckpointDir:     cfg.CheckpointDir,
		SkipExisting:      cfg.SkipExisting,
		PartialCheckpoint: cfg.PartialCheckpoint,
	}

	if err := run(runner); err != nil {
		log.Error("stage failed", zap.Error(err))
		return err
	}
	return nil
}

// applyFlags lets explicit flags win over environment configuration.
func applyFlags(cfg *config.Config, f *flags, cmd *cobra.Command) {
	if f.catalogPath != "" {
		cfg.CatalogPath = f.catalogPath
	}
	if f.checkpointDir != "" {
		cfg.CheckpointDir = f.checkpointDir
	}
	if f.profilePath != "" {
		cfg.ProfilePath = f.profilePath
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("skip-existing") {
		cfg.SkipExisting = f.skipExisting
	}
	if cmd.Flags().Changed("partial-checkpoint") {
		cfg.PartialCheckpoint = f.partialCheckpoint
	}
}

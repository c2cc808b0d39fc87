package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/config"
	"go.uber.org/zap"
)

// Stage numbers, used for checkpoint file naming.
const (
	StageCatalog  = 1
	StagePlans    = 2
	StageAccounts = 3
	StageUsage    = 4
)

// Store abstracts catalog persistence for the runner.
type Store interface {
	Load(path string) (catalog.Document, error)
	Save(doc catalog.Document, path string) error
}

// FileStore persists catalogs as YAML files.
type FileStore struct{}

func (FileStore) Load(path string) (catalog.Document, error) { return catalog.Load(path) }
func (FileStore) Save(doc catalog.Document, path string) error {
	return catalog.Save(doc, path)
}

// Runner wires one stage invocation: load the input document, authenticate,
// run the stage function, persist the checkpoint. Each stage reads the
// previous stage's file, never an in-memory handoff, so a multi-stage run can
// span separate process invocations.
type Runner struct {
	API     API
	Store   Store
	Profile config.Profile
	Log     *zap.Logger

	CatalogPath   string
	CheckpointDir string

	SkipExisting bool
	// PartialCheckpoint persists the partially-enriched document when the
	// account stage fails midway, for manual reconciliation. Off by default:
	// a checkpoint is an all-or-nothing artifact.
	PartialCheckpoint bool
}

func (r *Runner) opts() Options {
	return Options{SkipExisting: r.SkipExisting}
}

// Run executes the numbered stage.
func (r *Runner) Run(ctx context.Context, stage int) error {
	switch stage {
	case StageCatalog:
		return r.RunCatalog(ctx)
	case StagePlans:
		return r.RunPlans(ctx)
	case StageAccounts:
		return r.RunAccounts(ctx)
	case StageUsage:
		return r.RunUsage(ctx)
	default:
		return fmt.Errorf("unknown stage %d", stage)
	}
}

// RunAll executes stages 1 through 4 in order, each handing off through its
// checkpoint file.
func (r *Runner) RunAll(ctx context.Context) error {
	for stage := StageCatalog; stage <= StageUsage; stage++ {
		if err := r.Run(ctx, stage); err != nil {
			return err
		}
	}
	return nil
}

// RunCatalog provisions Product, Meter and Aggregations from the operator
// catalog and writes the stage-1 checkpoint.
func (r *Runner) RunCatalog(ctx context.Context) error {
	doc, err := r.Store.Load(r.CatalogPath)
	if err != nil {
		return err
	}
	if err := doc.ValidateCatalogDefinitions(); err != nil {
		return err
	}
	if err := r.API.Authenticate(ctx); err != nil {
		return err
	}
	out, err := ProvisionCatalog(ctx, r.API, doc, r.opts(), r.Log)
	if err != nil {
		return err
	}
	return r.checkpoint(out, StageCatalog)
}

// RunPlans provisions PlanTemplate, Plan and Pricings from the stage-1
// checkpoint and writes the stage-2 checkpoint.
func (r *Runner) RunPlans(ctx context.Context) error {
	doc, err := r.loadCheckpoint(StageCatalog)
	if err != nil {
		return err
	}
	if err := PlanPrereqs(doc); err != nil {
		return err
	}
	if err := r.API.Authenticate(ctx); err != nil {
		return err
	}
	out, err := ProvisionPlans(ctx, r.API, doc, r.Profile.Categories, r.opts(), r.Log)
	if err != nil {
		return err
	}
	return r.checkpoint(out, StagePlans)
}

// RunAccounts provisions Accounts and their AccountPlans from the stage-2
// checkpoint and writes the stage-3 checkpoint.
func (r *Runner) RunAccounts(ctx context.Context) error {
	doc, err := r.loadCheckpoint(StagePlans)
	if err != nil {
		return err
	}
	if err := AccountPrereqs(doc); err != nil {
		return err
	}
	if err := r.API.Authenticate(ctx); err != nil {
		return err
	}
	out, err := ProvisionAccounts(ctx, r.API, doc, r.opts(), r.Log)
	if err != nil {
		var partial *AccountStageError
		if r.PartialCheckpoint && errors.As(err, &partial) && partial.Completed > 0 {
			path := catalog.PartialCheckpointPath(r.CheckpointDir, StageAccounts)
			if saveErr := r.Store.Save(out, path); saveErr != nil {
				r.Log.Error("partial checkpoint not written", zap.Error(saveErr))
			} else {
				r.Log.Warn("partial progress persisted for reconciliation",
					zap.String("path", path),
					zap.Int("completed", partial.Completed),
					zap.Int("total", partial.Total))
			}
		}
		return err
	}
	return r.checkpoint(out, StageAccounts)
}

// RunUsage submits synthesized measurement batches from the stage-3
// checkpoint. No checkpoint is written; nothing runs after it.
func (r *Runner) RunUsage(ctx context.Context) error {
	doc, err := r.loadCheckpoint(StageAccounts)
	if err != nil {
		return err
	}
	if err := UsagePrereqs(doc); err != nil {
		return err
	}
	if err := r.API.Authenticate(ctx); err != nil {
		return err
	}
	summary, err := IngestUsage(ctx, r.API, doc, r.Profile, r.Log)
	if err != nil {
		return err
	}
	r.Log.Info("usage ingestion finished",
		zap.Int("accounts", summary.Accounts),
		zap.Int("submitted", summary.Submitted),
		zap.Int("failed", summary.Failed),
		zap.Int("records", summary.Records))
	return nil
}

func (r *Runner) loadCheckpoint(stage int) (catalog.Document, error) {
	path := catalog.CheckpointPath(r.CheckpointDir, stage)
	doc, err := r.Store.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog.Document{}, fmt.Errorf("checkpoint %s not found; run stage %d first", path, stage)
		}
		return catalog.Document{}, err
	}
	return doc, nil
}

func (r *Runner) checkpoint(doc catalog.Document, stage int) error {
	path := catalog.CheckpointPath(r.CheckpointDir, stage)
	if err := r.Store.Save(doc, path); err != nil {
		return err
	}
	r.Log.Info("checkpoint written", zap.Int("stage", stage), zap.String("path", path))
	return nil
}

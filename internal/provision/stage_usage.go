package provision

import (
	"context"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/config"
	"go.uber.org/zap"
)

// UsageSummary reports the outcome of the ingestion stage.
type UsageSummary struct {
	Accounts  int
	Submitted int
	Failed    int
	Records   int
}

// UsagePrereqs verifies the ingestion stage can run against the given
// checkpoint. Measurements reference meter and account by code, not id.
func UsagePrereqs(doc catalog.Document) error {
	if doc.Meter.Code == "" {
		return &MissingDependencyError{Entity: "Meter", Field: "code"}
	}
	if len(doc.Accounts) == 0 {
		return &MissingDependencyError{Entity: "Account", Field: "code"}
	}
	for _, a := range doc.Accounts {
		if a.Code == "" {
			return &MissingDependencyError{Entity: "Account", Field: "code"}
		}
	}
	return nil
}

// IngestUsage runs the fourth stage: one synthesized batch submitted per
// account. A failed submission is reported and counted but does not block the
// remaining accounts; there is no downstream id dependency to protect.
func IngestUsage(ctx context.Context, api API, doc catalog.Document, profile config.Profile, log *zap.Logger) (UsageSummary, error) {
	if err := UsagePrereqs(doc); err != nil {
		return UsageSummary{}, err
	}

	gen, err := NewGenerator(profile)
	if err != nil {
		return UsageSummary{}, err
	}

	summary := UsageSummary{Accounts: len(doc.Accounts)}
	for _, account := range doc.Accounts {
		batch := gen.Batch(doc.Meter.Code, account.Code)
		if err := api.SubmitMeasurements(ctx, batch); err != nil {
			summary.Failed++
			log.Error("usage batch rejected", zap.String("account", account.Code), zap.Error(err))
			continue
		}
		summary.Submitted++
		summary.Records += len(batch.Measurements)
		log.Info("usage batch submitted", zap.String("account", account.Code), zap.Int("records", len(batch.Measurements)))
	}
	return summary, nil
}

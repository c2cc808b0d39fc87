package provision

import (
	"context"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"go.uber.org/zap"
)

// Options tunes stage behavior.
type Options struct {
	// SkipExisting looks an entity up by code before creating it and adopts
	// the existing id when found, so a stage can be re-run without creating
	// duplicates.
	SkipExisting bool
}

// ProvisionCatalog runs the first stage: Product, then Meter, then each
// Aggregation, threading each returned id into the next payload. The input
// document is not mutated; the enriched copy is returned only when every
// creation succeeded.
func ProvisionCatalog(ctx context.Context, api API, doc catalog.Document, opts Options, log *zap.Logger) (catalog.Document, error) {
	if err := doc.ValidateCatalogDefinitions(); err != nil {
		return catalog.Document{}, err
	}

	out := doc.Clone()

	id, err := createEntity(ctx, opts, out.Product.Code, api.ProductByCode, func() (string, error) {
		return api.CreateProduct(ctx, out.Product)
	})
	if err != nil {
		return catalog.Document{}, &StageError{Entity: "product", Payload: out.Product, Err: err}
	}
	out.Product.ID = id
	log.Info("product provisioned", zap.String("code", out.Product.Code), zap.String("id", id))

	out.Meter.ProductID = out.Product.ID
	id, err = createEntity(ctx, opts, out.Meter.Code, api.MeterByCode, func() (string, error) {
		return api.CreateMeter(ctx, out.Meter)
	})
	if err != nil {
		return catalog.Document{}, &StageError{Entity: "meter", Payload: out.Meter, Err: err}
	}
	out.Meter.ID = id
	log.Info("meter provisioned", zap.String("code", out.Meter.Code), zap.String("id", id))

	for i := range out.Aggregations {
		agg := &out.Aggregations[i]
		agg.MeterID = out.Meter.ID
		id, err = createEntity(ctx, opts, agg.Code, api.AggregationByCode, func() (string, error) {
			return api.CreateAggregation(ctx, *agg)
		})
		if err != nil {
			return catalog.Document{}, &StageError{Entity: "aggregation", Payload: *agg, Err: err}
		}
		agg.ID = id
		log.Info("aggregation provisioned", zap.String("code", agg.Code), zap.String("id", id))
	}

	return out, nil
}

// createEntity adopts an existing entity by code when SkipExisting is on,
// otherwise issues the creation call.
func createEntity(ctx context.Context, opts Options, code string, find func(context.Context, string) (string, error), create func() (string, error)) (string, error) {
	if opts.SkipExisting {
		id, err := find(ctx, code)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}
	return create()
}

package provision

import (
	"context"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/config"
	"go.uber.org/zap"
)

// PlanPrereqs verifies the plan stage can run against the given checkpoint
// without issuing any network call.
func PlanPrereqs(doc catalog.Document) error {
	if err := doc.ValidatePlanDefinitions(); err != nil {
		return err
	}
	if doc.Product.ID == "" {
		return &MissingDependencyError{Entity: "Product", Field: "id"}
	}
	for _, a := range doc.Aggregations {
		if a.ID == "" {
			return &MissingDependencyError{Entity: "Aggregation", Field: "id"}
		}
	}
	return nil
}

// ProvisionPlans runs the second stage: PlanTemplate, Plan, then each Pricing
// with its aggregation reference resolved through the configured categories.
func ProvisionPlans(ctx context.Context, api API, doc catalog.Document, categories []config.Category, opts Options, log *zap.Logger) (catalog.Document, error) {
	if err := PlanPrereqs(doc); err != nil {
		return catalog.Document{}, err
	}

	out := doc.Clone()

	out.PlanTemplate.ProductID = out.Product.ID
	id, err := createEntity(ctx, opts, out.PlanTemplate.Code, api.PlanTemplateByCode, func() (string, error) {
		return api.CreatePlanTemplate(ctx, out.PlanTemplate)
	})
	if err != nil {
		return catalog.Document{}, &StageError{Entity: "plan template", Payload: out.PlanTemplate, Err: err}
	}
	out.PlanTemplate.ID = id
	log.Info("plan template provisioned", zap.String("code", out.PlanTemplate.Code), zap.String("id", id))

	out.Plan.PlanTemplateID = out.PlanTemplate.ID
	id, err = createEntity(ctx, opts, out.Plan.Code, api.PlanByCode, func() (string, error) {
		return api.CreatePlan(ctx, out.Plan)
	})
	if err != nil {
		return catalog.Document{}, &StageError{Entity: "plan", Payload: out.Plan, Err: err}
	}
	out.Plan.ID = id
	log.Info("plan provisioned", zap.String("code", out.Plan.Code), zap.String("id", id))

	byCategory, err := ResolveAggregations(out.Aggregations, categories)
	if err != nil {
		return catalog.Document{}, err
	}

	for i := range out.Pricings {
		pricing := &out.Pricings[i]
		aggID, ok := byCategory[pricing.Description]
		if !ok {
			// Left unset on purpose; the remote validation rejects it with a
			// diagnosable error instead of the resolver guessing.
			log.Warn("pricing matches no category", zap.String("description", pricing.Description))
		} else {
			pricing.AggregationID = aggID
		}
		pricing.PlanID = out.Plan.ID

		id, err := api.CreatePricing(ctx, *pricing)
		if err != nil {
			return catalog.Document{}, &StageError{Entity: "pricing", Payload: *pricing, Err: err}
		}
		pricing.ID = id
		log.Info("pricing provisioned", zap.String("description", pricing.Description), zap.String("id", id))
	}

	return out, nil
}

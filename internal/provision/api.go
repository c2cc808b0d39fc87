package provision

import (
	"context"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/m3ter"
)

// API is the remote entity service the stages drive. *m3ter.Client satisfies
// it; tests substitute mocks.
type API interface {
	Authenticate(ctx context.Context) error

	CreateProduct(ctx context.Context, p catalog.Product) (string, error)
	CreateMeter(ctx context.Context, m catalog.Meter) (string, error)
	CreateAggregation(ctx context.Context, a catalog.Aggregation) (string, error)
	CreatePlanTemplate(ctx context.Context, t catalog.PlanTemplate) (string, error)
	CreatePlan(ctx context.Context, p catalog.Plan) (string, error)
	CreatePricing(ctx context.Context, p catalog.Pricing) (string, error)
	CreateAccount(ctx context.Context, a catalog.Account) (string, error)
	CreateAccountPlan(ctx context.Context, ap catalog.AccountPlan) (string, error)

	ProductByCode(ctx context.Context, code string) (string, error)
	MeterByCode(ctx context.Context, code string) (string, error)
	AggregationByCode(ctx context.Context, code string) (string, error)
	PlanTemplateByCode(ctx context.Context, code string) (string, error)
	PlanByCode(ctx context.Context, code string) (string, error)
	AccountByCode(ctx context.Context, code string) (string, error)

	SubmitMeasurements(ctx context.Context, batch m3ter.MeasurementBatch) error
}

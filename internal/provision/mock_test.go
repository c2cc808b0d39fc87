package provision

import (
	"context"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/m3ter"
	"github.com/stretchr/testify/mock"
)

// -- Mocks --

type apiMock struct {
	mock.Mock
}

func (m *apiMock) Authenticate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *apiMock) CreateProduct(ctx context.Context, p catalog.Product) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreateMeter(ctx context.Context, mt catalog.Meter) (string, error) {
	args := m.Called(ctx, mt)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreateAggregation(ctx context.Context, a catalog.Aggregation) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreatePlanTemplate(ctx context.Context, t catalog.PlanTemplate) (string, error) {
	args := m.Called(ctx, t)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreatePlan(ctx context.Context, p catalog.Plan) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreatePricing(ctx context.Context, p catalog.Pricing) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreateAccount(ctx context.Context, a catalog.Account) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func (m *apiMock) CreateAccountPlan(ctx context.Context, ap catalog.AccountPlan) (string, error) {
	args := m.Called(ctx, ap)
	return args.String(0), args.Error(1)
}

func (m *apiMock) ProductByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *apiMock) MeterByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *apiMock) AggregationByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *apiMock) PlanTemplateByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *apiMock) PlanByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *apiMock) AccountByCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *apiMock) SubmitMeasurements(ctx context.Context, batch m3ter.MeasurementBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// -- Fixtures --

func fixtureCatalog() catalog.Document {
	return catalog.Document{
		Product: catalog.Product{Name: "Serverless API", Code: "serverless_api"},
		Meter: catalog.Meter{
			Name: "API Meter",
			Code: "api_meter",
			DataFields: []catalog.MeterField{
				{Category: "MEASURE", Code: "memory_consumption", Name: "Memory Consumption", Unit: "MB"},
				{Category: "MEASURE", Code: "execution_time", Name: "Execution Time", Unit: "ms"},
			},
		},
		Aggregations: []catalog.Aggregation{
			{Name: "Total Number of Requests", Code: "memory_consumption", Aggregation: "SUM", TargetField: "memory_consumption"},
			{Name: "Duration Aggregation", Code: "execution_time", Aggregation: "MAX", TargetField: "execution_time"},
		},
		PlanTemplate: catalog.PlanTemplate{Name: "API Template", Code: "api_template", Currency: "USD"},
		Plan:         catalog.Plan{Name: "API Plan", Code: "api_plan"},
		Pricings: []catalog.Pricing{
			{Description: "Requests", Type: "TIERED", PricingBands: []catalog.PricingBand{{LowerLimit: 0, UnitPrice: 0.01}}},
			{Description: "Duration", Type: "TIERED", PricingBands: []catalog.PricingBand{{LowerLimit: 0, UnitPrice: 0.002}}},
		},
		Accounts: []catalog.Account{
			{Name: "Acme", Code: "acme"},
			{Name: "Globex", Code: "globex"},
		},
		AccountPlan: catalog.AccountPlan{StartDate: "2024-12-01T00:00:00.000Z"},
	}
}

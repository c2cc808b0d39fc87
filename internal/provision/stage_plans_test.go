package provision

import (
	"context"
	"testing"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtureAfterCatalogStage() catalog.Document {
	doc := fixtureCatalog()
	doc.Product.ID = "prod-1"
	doc.Meter.ProductID = "prod-1"
	doc.Meter.ID = "meter-1"
	doc.Aggregations[0].MeterID = "meter-1"
	doc.Aggregations[0].ID = "a1"
	doc.Aggregations[1].MeterID = "meter-1"
	doc.Aggregations[1].ID = "a2"
	return doc
}

func TestProvisionPlans_ThreadsIDs(t *testing.T) {
	doc := fixtureAfterCatalogStage()
	api := new(apiMock)

	template := doc.PlanTemplate
	template.ProductID = "prod-1"
	api.On("CreatePlanTemplate", mock.Anything, template).Return("tmpl-1", nil)

	plan := doc.Plan
	plan.PlanTemplateID = "tmpl-1"
	api.On("CreatePlan", mock.Anything, plan).Return("plan-1", nil)

	requests := doc.Pricings[0]
	requests.AggregationID = "a1"
	requests.PlanID = "plan-1"
	api.On("CreatePricing", mock.Anything, requests).Return("price-1", nil)

	duration := doc.Pricings[1]
	duration.AggregationID = "a2"
	duration.PlanID = "plan-1"
	api.On("CreatePricing", mock.Anything, duration).Return("price-2", nil)

	out, err := ProvisionPlans(context.Background(), api, doc, testCategories, Options{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "tmpl-1", out.PlanTemplate.ID)
	assert.Equal(t, "plan-1", out.Plan.ID)
	assert.Equal(t, "price-1", out.Pricings[0].ID)
	assert.Equal(t, "a1", out.Pricings[0].AggregationID)
	assert.Equal(t, "price-2", out.Pricings[1].ID)
	assert.Equal(t, "a2", out.Pricings[1].AggregationID)

	// Earlier stage ids are carried forward untouched.
	assert.Equal(t, "prod-1", out.Product.ID)
	assert.Equal(t, "meter-1", out.Meter.ID)

	api.AssertExpectations(t)
}

func TestProvisionPlans_MissingProductID(t *testing.T) {
	doc := fixtureAfterCatalogStage()
	doc.Product.ID = ""
	api := new(apiMock)

	_, err := ProvisionPlans(context.Background(), api, doc, testCategories, Options{}, zap.NewNop())

	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Product", missing.Entity)
	api.AssertNotCalled(t, "CreatePlanTemplate", mock.Anything, mock.Anything)
}

func TestProvisionPlans_UnmatchedDescriptionLeftUnset(t *testing.T) {
	doc := fixtureAfterCatalogStage()
	doc.Pricings = doc.Pricings[:1]
	doc.Pricings[0].Description = "Storage"
	api := new(apiMock)

	api.On("CreatePlanTemplate", mock.Anything, mock.Anything).Return("tmpl-1", nil)
	api.On("CreatePlan", mock.Anything, mock.Anything).Return("plan-1", nil)
	api.On("CreatePricing", mock.Anything, mock.MatchedBy(func(p catalog.Pricing) bool {
		return p.AggregationID == "" && p.PlanID == "plan-1"
	})).Return("price-1", nil)

	_, err := ProvisionPlans(context.Background(), api, doc, testCategories, Options{}, zap.NewNop())
	require.NoError(t, err)
	api.AssertExpectations(t)
}

package provision

import (
	"context"
	"testing"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"github.com/smallbiznis/meterseed/internal/m3ter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtureAfterPlanStage() catalog.Document {
	doc := fixtureAfterCatalogStage()
	doc.PlanTemplate.ProductID = "prod-1"
	doc.PlanTemplate.ID = "tmpl-1"
	doc.Plan.PlanTemplateID = "tmpl-1"
	doc.Plan.ID = "plan-1"
	return doc
}

func TestProvisionAccounts_PairsEveryAccountWithAPlan(t *testing.T) {
	doc := fixtureAfterPlanStage()
	api := new(apiMock)

	var calls []string
	api.On("CreateAccount", mock.Anything, doc.Accounts[0]).
		Run(func(mock.Arguments) { calls = append(calls, "account:acme") }).
		Return("acct-1", nil)
	api.On("CreateAccount", mock.Anything, doc.Accounts[1]).
		Run(func(mock.Arguments) { calls = append(calls, "account:globex") }).
		Return("acct-2", nil)
	api.On("CreateAccountPlan", mock.Anything, mock.MatchedBy(func(ap catalog.AccountPlan) bool {
		return ap.PlanID == "plan-1" && ap.StartDate == doc.AccountPlan.StartDate
	})).Run(func(args mock.Arguments) {
		calls = append(calls, "plan:"+args.Get(1).(catalog.AccountPlan).AccountID)
	}).Return("ap-id", nil)

	out, err := ProvisionAccounts(context.Background(), api, doc, Options{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "acct-1", out.Accounts[0].ID)
	assert.Equal(t, "acct-2", out.Accounts[1].ID)

	// Each account's plan is created before the next account is attempted.
	assert.Equal(t, []string{"account:acme", "plan:acct-1", "account:globex", "plan:acct-2"}, calls)
}

func TestProvisionAccounts_ReportsProgressOnFailure(t *testing.T) {
	doc := fixtureAfterPlanStage()
	api := new(apiMock)

	api.On("CreateAccount", mock.Anything, doc.Accounts[0]).Return("acct-1", nil)
	api.On("CreateAccountPlan", mock.Anything, mock.Anything).Return("ap-id", nil).Once()
	api.On("CreateAccount", mock.Anything, doc.Accounts[1]).
		Return("", &m3ter.APIError{Kind: "account", Status: 500, Body: "boom"})

	out, err := ProvisionAccounts(context.Background(), api, doc, Options{}, zap.NewNop())

	var stageErr *AccountStageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, 1, stageErr.Completed)
	assert.Equal(t, 2, stageErr.Total)

	// Partial progress is returned for the runner's checkpoint policy.
	assert.Equal(t, "acct-1", out.Accounts[0].ID)
	assert.Empty(t, out.Accounts[1].ID)
}

func TestProvisionAccounts_MissingPlanID(t *testing.T) {
	doc := fixtureAfterPlanStage()
	doc.Plan.ID = ""
	api := new(apiMock)

	_, err := ProvisionAccounts(context.Background(), api, doc, Options{}, zap.NewNop())

	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Plan", missing.Entity)
	api.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

package provision

import (
	"context"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"go.uber.org/zap"
)

// AccountPrereqs verifies the account stage can run against the given
// checkpoint without issuing any network call.
func AccountPrereqs(doc catalog.Document) error {
	if err := doc.ValidateAccountDefinitions(); err != nil {
		return err
	}
	if doc.Plan.ID == "" {
		return &MissingDependencyError{Entity: "Plan", Field: "id"}
	}
	return nil
}

// ProvisionAccounts runs the third stage. Accounts are processed one at a
// time in list order; each created account is immediately paired with one
// AccountPlan built from the shared template before the next account is
// attempted. On failure the partially-enriched document is returned alongside
// an AccountStageError so the runner can apply its partial-checkpoint policy.
func ProvisionAccounts(ctx context.Context, api API, doc catalog.Document, opts Options, log *zap.Logger) (catalog.Document, error) {
	if err := AccountPrereqs(doc); err != nil {
		return catalog.Document{}, err
	}

	out := doc.Clone()
	out.AccountPlan.PlanID = out.Plan.ID
	total := len(out.Accounts)

	for i := range out.Accounts {
		account := &out.Accounts[i]

		id, err := createEntity(ctx, opts, account.Code, api.AccountByCode, func() (string, error) {
			return api.CreateAccount(ctx, *account)
		})
		if err != nil {
			return out, &AccountStageError{Completed: i, Total: total, Err: &StageError{Entity: "account", Payload: *account, Err: err}}
		}
		account.ID = id

		plan := out.AccountPlan
		plan.AccountID = account.ID
		if _, err := api.CreateAccountPlan(ctx, plan); err != nil {
			return out, &AccountStageError{Completed: i, Total: total, Err: &StageError{Entity: "account plan", Payload: plan, Err: err}}
		}
		log.Info("account provisioned", zap.String("code", account.Code), zap.String("id", account.ID))
	}

	return out, nil
}

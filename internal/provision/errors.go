package provision

import (
	"encoding/json"
	"fmt"
)

// MissingDependencyError reports an upstream identifier absent from the
// loaded checkpoint. Raised before any network call.
type MissingDependencyError struct {
	Entity string
	Field  string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s.%s is missing from the checkpoint; run the earlier stage first", e.Entity, e.Field)
}

// StageError wraps a failed creation call with the entity kind and the
// payload that was attempted, for operator diagnosis.
type StageError struct {
	Entity  string
	Payload any
	Err     error
}

func (e *StageError) Error() string {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		payload = []byte(fmt.Sprintf("%+v", e.Payload))
	}
	return fmt.Sprintf("create %s: %v (payload: %s)", e.Entity, e.Err, payload)
}

func (e *StageError) Unwrap() error { return e.Err }

// AccountStageError reports how far the account stage got before failing,
// distinctly from the underlying cause.
type AccountStageError struct {
	Completed int
	Total     int
	Err       error
}

func (e *AccountStageError) Error() string {
	return fmt.Sprintf("accounts: %d of %d provisioned before failure: %v", e.Completed, e.Total, e.Err)
}

func (e *AccountStageError) Unwrap() error { return e.Err }

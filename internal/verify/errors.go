package verify

import "fmt"

// Kind classifies a pipeline failure and decides the user-visible status.
type Kind int

const (
	// KindConfig: required server configuration is missing. 500.
	KindConfig Kind = iota + 1
	// KindClientInput: the request itself is unusable. 400.
	KindClientInput
	// KindUpstreamAuth: Discord rejected the exchange or profile fetch. 400.
	KindUpstreamAuth
	// KindPersistence: the link upsert failed. 500.
	KindPersistence
)

// Pipeline step names, used in StepError and log fields.
const (
	StepReceiveCode   = "receive_code"
	StepTokenExchange = "token_exchange"
	StepProfileFetch  = "profile_fetch"
	StepPersistLink   = "persist_link"
)

// StepError is a failure of one named pipeline step. Side effects (DM,
// role grant) never produce one; they are logged and swallowed.
type StepError struct {
	Kind Kind
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("verify: step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(kind Kind, step string, err error) *StepError {
	return &StepError{Kind: kind, Step: step, Err: err}
}

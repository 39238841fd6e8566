package pipeline

import "context"

// LLMComponent is the interface every LLM adapter in a pipeline must
// implement. The orchestrator drives the full lifecycle: Start once before
// any call, OpenCall and CloseCall around each generation, Stop at teardown.
type LLMComponent interface {
	// Key returns the identifier the component was constructed with and is
	// registered under.
	Key() string

	// Start prepares the component for calls. It must not reach the backing
	// model service; adapters that cannot operate degrade to failing their
	// first real use instead of failing Start.
	Start(ctx context.Context) error

	// Stop releases component state. It may be called any number of times,
	// with or without a prior Start, and must not fail.
	Stop(ctx context.Context) error

	// OpenCall runs before Generate for one call id and may perform
	// per-call setup such as opening a stream.
	OpenCall(ctx context.Context, callID string, opts Options) error

	// CloseCall runs after the call completes or fails and must release any
	// resources OpenCall acquired.
	CloseCall(ctx context.Context, callID string) error

	// Generate sends the transcript as the user turn and returns the
	// normalized response. callCtx carries call-scoped values for
	// components that consult them; adapters are free to ignore it.
	Generate(ctx context.Context, callID, transcript string, callCtx map[string]any, opts Options) (*Response, error)
}

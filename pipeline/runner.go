package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NewCallID returns a fresh call identifier.
func NewCallID() string {
	return "call_" + uuid.New().String()[:8]
}

// Runner executes single calls against registered components, enforcing the
// OpenCall/Generate/CloseCall bracketing and emitting call events.
type Runner struct {
	registry *Registry
	emitter  *EventEmitter
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEmitter sets the emitter call events are dispatched on.
func WithEmitter(emitter *EventEmitter) RunnerOption {
	return func(r *Runner) {
		r.emitter = emitter
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner over registry.
func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		emitter:  NewEventEmitter(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Call runs one bracketed generation against the component registered under
// key. The component's response and error pass through unchanged. Once
// OpenCall has succeeded, CloseCall always runs, also when Generate fails;
// a CloseCall failure is logged, never propagated over the call's own
// outcome.
func (r *Runner) Call(ctx context.Context, key, transcript string, callCtx map[string]any, opts Options) (*Response, error) {
	comp, err := r.registry.Resolve(key)
	if err != nil {
		return nil, err
	}

	callID := NewCallID()
	log := r.logger.With("call_id", callID, "component", comp.Key())

	if err := comp.OpenCall(ctx, callID, opts); err != nil {
		log.Error("open_call failed", "error", err)
		return nil, err
	}
	r.emitter.Emit(CallOpenedEvent(callID, comp.Key()))

	start := time.Now()
	resp, genErr := comp.Generate(ctx, callID, transcript, callCtx, opts)
	if genErr != nil {
		r.emitter.Emit(GenerateFailedEvent(callID, comp.Key(), genErr.Error(), time.Since(start)))
		log.Error("generate failed", "error", genErr)
	} else {
		r.emitter.Emit(GenerateCompletedEvent(callID, comp.Key(), resp.Model(), time.Since(start), len(resp.Text)))
		log.Debug("generate completed",
			"model", resp.Model(),
			"duration_ms", time.Since(start).Milliseconds(),
			"text_len", len(resp.Text),
		)
	}

	if err := comp.CloseCall(ctx, callID); err != nil {
		log.Warn("close_call failed", "error", err)
	}
	r.emitter.Emit(CallClosedEvent(callID, comp.Key()))

	if genErr != nil {
		return nil, genErr
	}
	return resp, nil
}

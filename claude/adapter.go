// Package claude binds a pipeline to Anthropic's Claude Messages API as a
// single LLM component.
package claude

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/modpipe/modpipe/config"
	"github.com/modpipe/modpipe/offload"
	"github.com/modpipe/modpipe/pipeline"
)

// Hard fallbacks applied after the three configuration layers merge.
const (
	DefaultModel       = "claude-3-5-sonnet-20240620"
	DefaultTemperature = 0.6
	DefaultMaxTokens   = 256
)

// Adapter implements pipeline.LLMComponent against the Claude Messages API.
// Construction is side-effect free; the vendor client is built lazily on the
// first Generate and the per-call hooks are no-ops because the backend is
// stateless.
type Adapter struct {
	key              string
	cfg              *config.AppConfig
	providerDefaults pipeline.Options
	pipelineDefaults pipeline.Options

	factory clientFactory
	pool    *offload.Pool
	logger  *slog.Logger

	mu     sync.Mutex
	client messagesClient
}

var _ pipeline.LLMComponent = (*Adapter)(nil)

// Option configures an Adapter beyond its constructor arguments.
type Option func(*Adapter)

// WithPool sets the worker pool remote calls are dispatched on.
func WithPool(pool *offload.Pool) Option {
	return func(a *Adapter) {
		a.pool = pool
	}
}

// WithLogger sets the adapter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// New constructs an Adapter. providerDefaults come from framework wiring and
// pipelineDefaults from the pipeline instantiation; both may be nil. No
// client is created and no validation runs until a call is attempted, so
// missing credentials surface from Generate, never from here.
func New(key string, cfg *config.AppConfig, providerDefaults, pipelineDefaults pipeline.Options, opts ...Option) *Adapter {
	a := &Adapter{
		key:              key,
		cfg:              cfg,
		providerDefaults: providerDefaults,
		pipelineDefaults: pipelineDefaults,
		factory:          newSDKClient,
		pool:             offload.Default(),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the component key the adapter was constructed with.
func (a *Adapter) Key() string {
	return a.key
}

// Start reports client availability without enforcing it. A missing client
// capability leaves the adapter started but non-functional; the hard failure
// surfaces on first use.
func (a *Adapter) Start(ctx context.Context) error {
	if a.factory == nil {
		a.logger.Warn("claude client unavailable, generate calls will fail", "component", a.key)
		return nil
	}
	a.logger.Debug("claude adapter ready", "component", a.key)
	return nil
}

// Stop drops the memoized client handle. Safe to call any number of times,
// with or without a prior Start.
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()
	return nil
}

// OpenCall is a no-op: the backend holds no per-call state.
func (a *Adapter) OpenCall(ctx context.Context, callID string, opts pipeline.Options) error {
	return nil
}

// CloseCall is a no-op.
func (a *Adapter) CloseCall(ctx context.Context, callID string) error {
	return nil
}

// Generate merges the option layers, resolves the credential and system
// prompt, and dispatches one Messages call carrying transcript as the user
// turn. The remote call runs on the worker pool: cancelling ctx abandons the
// wait but never the dispatched request. Failures from the vendor SDK return
// unchanged.
func (a *Adapter) Generate(ctx context.Context, callID, transcript string, callCtx map[string]any, opts pipeline.Options) (*pipeline.Response, error) {
	merged := a.mergeOptions(opts)

	apiKey, _ := merged.String("api_key")
	if apiKey == "" {
		apiKey, _ = a.providerDefaults.String("api_key")
	}
	if apiKey == "" {
		return nil, &pipeline.ConfigurationError{ComponentError: pipeline.ComponentError{
			Component: a.key,
			Message:   "claude requires an api_key; set CLAUDE_API_KEY or the provider api_key option",
		}}
	}

	client, err := a.buildClient(apiKey)
	if err != nil {
		return nil, err
	}

	model, _ := merged.String("model")
	params := a.buildParams(merged, transcript)

	a.logger.Debug("dispatching claude call",
		"component", a.key,
		"call_id", callID,
		"model", model,
		"transcript_chars", len(transcript),
	)

	// The dispatched request gets a cancellation-stripped context: once the
	// call is in flight, cancelling the awaiting caller abandons the wait
	// without aborting the request.
	reqCtx := context.WithoutCancel(ctx)
	msg, err := offload.Do(ctx, a.pool, func() (*anthropic.Message, error) {
		return client.New(reqCtx, params)
	})
	if err != nil {
		return nil, err
	}

	resp := normalizeMessage(msg, model)
	a.logger.Debug("claude call completed",
		"component", a.key,
		"call_id", callID,
		"model", model,
		"text_chars", len(resp.Text),
	)
	return resp, nil
}

// mergeOptions applies the three configuration layers, later layers winning
// key by key, then fills the hard fallbacks for any key still absent. The
// caller's map is never modified.
func (a *Adapter) mergeOptions(runtime pipeline.Options) pipeline.Options {
	merged := a.providerDefaults.Merged(a.pipelineDefaults, runtime)
	merged.SetDefault("model", DefaultModel)
	merged.SetDefault("temperature", DefaultTemperature)
	merged.SetDefault("max_tokens", DefaultMaxTokens)
	return merged
}

// buildClient returns the memoized client, creating it on first use. The
// first call's key wins for the life of the adapter: later calls reuse the
// handle even when they resolved a different key, until Stop clears it.
func (a *Adapter) buildClient(apiKey string) (messagesClient, error) {
	if a.factory == nil {
		return nil, &pipeline.DependencyError{ComponentError: pipeline.ComponentError{
			Component: a.key,
			Message:   "claude client library is not available",
		}}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		a.client = a.factory(apiKey)
	}
	return a.client, nil
}

// buildParams translates merged options and the transcript into a Messages
// request. A system prompt, when one resolves, rides ahead of the user turn
// as the dedicated system block.
func (a *Adapter) buildParams(merged pipeline.Options, transcript string) anthropic.MessageNewParams {
	model, _ := merged.String("model")
	maxTokens, ok := merged.Int("max_tokens")
	if !ok {
		maxTokens = DefaultMaxTokens
	}
	temperature, ok := merged.Float("temperature")
	if !ok {
		temperature = DefaultTemperature
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(transcript)),
		},
	}
	if system := a.systemPrompt(merged); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

// systemPrompt resolves the system prompt from merged options, falling back
// to the globally configured llm.prompt.
func (a *Adapter) systemPrompt(merged pipeline.Options) string {
	if s, ok := merged.String("system"); ok && s != "" {
		return s
	}
	if a.cfg != nil {
		return a.cfg.LLM.Prompt
	}
	return ""
}

// normalizeMessage flattens a raw reply into the pipeline response shape:
// text segments concatenated in order and trimmed, no tool calls, and the
// resolved model recorded in metadata.
func normalizeMessage(msg *anthropic.Message, model string) *pipeline.Response {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &pipeline.Response{
		Text:      strings.TrimSpace(sb.String()),
		ToolCalls: []pipeline.ToolCall{},
		Metadata: map[string]any{
			"model":         model,
			"stop_reason":   string(msg.StopReason),
			"input_tokens":  msg.Usage.InputTokens,
			"output_tokens": msg.Usage.OutputTokens,
		},
	}
}

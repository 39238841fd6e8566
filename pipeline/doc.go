// Package pipeline defines the component surface of a modular LLM pipeline:
// the contract adapters implement, the option and response types they share,
// and the registry and runner the orchestrator drives them through.
//
// # Architecture
//
// The package follows a three-layer layout:
//
//   - Layer 1 (Component Contract): LLMComponent interface and the shared
//     Options, Response, and error types
//   - Layer 2 (Wiring): Registry with keyed lookup and lifecycle fan-out
//   - Layer 3 (Execution): Runner enforcing per-call bracketing, with an
//     EventEmitter for observability
//
// # Quick Start
//
// Registering a component and running one call:
//
//	registry := pipeline.NewRegistry(pipeline.WithComponent(adapter))
//	if err := registry.StartAll(ctx); err != nil {
//	    return err
//	}
//	defer registry.StopAll(ctx)
//
//	runner := pipeline.NewRunner(registry)
//	resp, err := runner.Call(ctx, "claude", "Hello there", nil, pipeline.Options{
//	    "temperature": 0.2,
//	})
//	fmt.Println(resp.Text)
//
// # Option Layers
//
// Components receive configuration in three layers: provider defaults set at
// wiring time, pipeline defaults set per pipeline instantiation, and runtime
// options passed with each call. Layers merge shallowly, later layers
// winning key by key:
//
//	merged := providerDefaults.Merged(pipelineDefaults, runtimeOptions)
//
// # Call Bracketing
//
// Every generation is bracketed by OpenCall and CloseCall on the component,
// correlated by a call id. The Runner guarantees CloseCall runs after the
// call completes or fails, so components with per-call resources (an open
// stream, a session) can rely on the release hook.
package pipeline

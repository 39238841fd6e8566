package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallID(t *testing.T) {
	id := NewCallID()
	assert.True(t, strings.HasPrefix(id, "call_"))
	assert.Len(t, id, 13)
	assert.NotEqual(t, id, NewCallID())
}

func TestRunnerCallBracketing(t *testing.T) {
	comp := newFakeComponent("claude", "Hello")
	registry := NewRegistry(WithComponent(comp))
	runner := NewRunner(registry)

	resp, err := runner.Call(context.Background(), "claude", "Hi", nil, Options{"temperature": 0.2})
	require.NoError(t, err)
	assert.Same(t, comp.response, resp)

	assert.Equal(t, []string{"open:claude", "generate:claude", "close:claude"}, comp.rec.list())
	assert.NotEmpty(t, comp.openedID)
	assert.Equal(t, comp.openedID, comp.generatedID)
	assert.Equal(t, comp.openedID, comp.closedID)
	assert.Equal(t, "Hi", comp.gotTranscript)
	assert.Equal(t, Options{"temperature": 0.2}, comp.gotOpts)
}

func TestRunnerCallClosesAfterGenerateFailure(t *testing.T) {
	comp := newFakeComponent("claude", "")
	sentinel := errors.New("overloaded")
	comp.generateErr = sentinel
	registry := NewRegistry(WithComponent(comp))
	runner := NewRunner(registry)

	resp, err := runner.Call(context.Background(), "claude", "Hi", nil, nil)
	assert.Nil(t, resp)
	assert.Same(t, sentinel, err)

	assert.Equal(t, []string{"open:claude", "generate:claude", "close:claude"}, comp.rec.list())
}

func TestRunnerCallOpenFailureSkipsGenerate(t *testing.T) {
	comp := newFakeComponent("claude", "")
	comp.openErr = errors.New("call limit reached")
	registry := NewRegistry(WithComponent(comp))
	runner := NewRunner(registry)

	resp, err := runner.Call(context.Background(), "claude", "Hi", nil, nil)
	assert.Nil(t, resp)
	assert.Same(t, comp.openErr, err)

	assert.Equal(t, []string{"open:claude"}, comp.rec.list())
}

func TestRunnerCallCloseErrorDoesNotMaskOutcome(t *testing.T) {
	comp := newFakeComponent("claude", "Hello")
	comp.closeErr = errors.New("already closed")
	registry := NewRegistry(WithComponent(comp))
	runner := NewRunner(registry)

	resp, err := runner.Call(context.Background(), "claude", "Hi", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Text)
}

func TestRunnerCallUnknownComponent(t *testing.T) {
	runner := NewRunner(NewRegistry())

	resp, err := runner.Call(context.Background(), "nope", "Hi", nil, nil)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
}

func TestRunnerCallEmitsEventsInOrder(t *testing.T) {
	comp := newFakeComponent("claude", "Hello")
	registry := NewRegistry(WithComponent(comp))

	emitter := NewEventEmitter()
	var events []Event
	emitter.On(func(e Event) { events = append(events, e) })
	runner := NewRunner(registry, WithEmitter(emitter))

	_, err := runner.Call(context.Background(), "", "Hi", nil, nil)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, EventCallOpened, events[0].Type)
	assert.Equal(t, EventGenerateCompleted, events[1].Type)
	assert.Equal(t, EventCallClosed, events[2].Type)
	for _, e := range events {
		assert.Equal(t, comp.openedID, e.CallID)
	}
	assert.Equal(t, "test-model", events[1].Data["model"])
	assert.Equal(t, len("Hello"), events[1].Data["text_len"])
}

func TestRunnerCallEmitsFailureEvents(t *testing.T) {
	comp := newFakeComponent("claude", "")
	comp.generateErr = errors.New("overloaded")
	registry := NewRegistry(WithComponent(comp))

	emitter := NewEventEmitter()
	var events []Event
	emitter.On(func(e Event) { events = append(events, e) })
	runner := NewRunner(registry, WithEmitter(emitter))

	_, err := runner.Call(context.Background(), "claude", "Hi", nil, nil)
	require.Error(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, EventCallOpened, events[0].Type)
	assert.Equal(t, EventGenerateFailed, events[1].Type)
	assert.Equal(t, EventCallClosed, events[2].Type)
	assert.Equal(t, "overloaded", events[1].Data["error"])
}

func TestRunnerCallOpenFailureEmitsNothing(t *testing.T) {
	comp := newFakeComponent("claude", "")
	comp.openErr = errors.New("call limit reached")
	registry := NewRegistry(WithComponent(comp))

	emitter := NewEventEmitter()
	var events []Event
	emitter.On(func(e Event) { events = append(events, e) })
	runner := NewRunner(registry, WithEmitter(emitter))

	_, err := runner.Call(context.Background(), "claude", "Hi", nil, nil)
	require.Error(t, err)
	assert.Empty(t, events)
}

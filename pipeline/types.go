package pipeline

// ToolCall is a model-initiated tool invocation extracted from a response.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Response is the normalized result every LLM component returns: flattened
// text, any tool calls the model made, and provider metadata. Adapters
// without tool support return an empty (never nil) ToolCalls slice.
type Response struct {
	Text      string         `json:"text"`
	ToolCalls []ToolCall     `json:"tool_calls"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Model returns the resolved model name recorded in the response metadata,
// or "" when the adapter recorded none.
func (r *Response) Model() string {
	if m, ok := r.Metadata["model"].(string); ok {
		return m
	}
	return ""
}

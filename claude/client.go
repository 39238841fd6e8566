package claude

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// messagesClient is the slice of the vendor SDK the adapter calls.
type messagesClient interface {
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// clientFactory builds a messagesClient for an API key. The adapter treats a
// nil factory as the backing client capability being unavailable.
type clientFactory func(apiKey string) messagesClient

type sdkClient struct {
	client anthropic.Client
}

func newSDKClient(apiKey string) messagesClient {
	return &sdkClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

func (s *sdkClient) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return s.client.Messages.New(ctx, params)
}

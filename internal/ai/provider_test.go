package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatClient(t *testing.T) {
	client, closeFn, err := NewChatClient(context.Background(), ProviderConfig{Provider: ProviderOpenAI, APIKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, client)
	assert.NoError(t, closeFn())

	_, _, err = NewChatClient(context.Background(), ProviderConfig{Provider: "claude"})
	assert.ErrorContains(t, err, `unknown chat provider "claude"`)
}

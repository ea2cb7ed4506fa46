package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layersense/internal/config"
)

func newTestConfig() *config.Config {
	return &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai": {
				APIKey:  "sk-test",
				BaseURL: "http://127.0.0.1:1/v1",
				Model:   "gpt-4o-mini",
				Timeout: time.Second,
			},
			"nokey": {Model: "gpt-4o-mini"},
		},
	}}
}

func TestEinoFactoryCachesDefaultProvider(t *testing.T) {
	f := NewEinoFactory(newTestConfig())

	first, err := f.Default(context.Background())
	require.NoError(t, err)
	second, err := f.Get(context.Background(), "openai")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestEinoFactoryErrors(t *testing.T) {
	f := NewEinoFactory(newTestConfig())

	_, err := f.Get(context.Background(), "anthropic")
	assert.ErrorContains(t, err, "not found")

	_, err = f.Get(context.Background(), "nokey")
	assert.ErrorContains(t, err, "api_key")
}

func TestChatModelConfigOmitsZeroValues(t *testing.T) {
	c := chatModelConfig(config.ProviderConfig{APIKey: "k", Model: "m"})
	assert.Nil(t, c.MaxTokens)
	assert.Nil(t, c.Temperature)

	c = chatModelConfig(config.ProviderConfig{APIKey: "k", Model: "m", MaxTokens: 4096, Temperature: 0.2})
	require.NotNil(t, c.MaxTokens)
	assert.Equal(t, 4096, *c.MaxTokens)
	require.NotNil(t, c.Temperature)
	assert.InDelta(t, 0.2, *c.Temperature, 1e-6)
}

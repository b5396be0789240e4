package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	reply      string
	err        error
	models     []string
	listErr    error
	prompts    []string
	listCalled int
}

func (f *fakeProvider) Model() string { return "gemini-test" }

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeProvider) ListModels(context.Context) ([]string, error) {
	f.listCalled++
	return f.models, f.listErr
}

func TestGateway_DemoMode(t *testing.T) {
	provider := &fakeProvider{reply: "should not be used"}
	gw := NewGateway("", provider, zap.NewNop())

	got, err := gw.Generate(context.Background(), PromptInput{Message: "What is Go?"})

	require.NoError(t, err)
	assert.Equal(t, "Demo mode: Received 'What is Go?'. Add Gemini API key for full functionality.", got)
	assert.Empty(t, provider.prompts)
	assert.True(t, gw.DemoMode())
}

func TestGateway_Success(t *testing.T) {
	provider := &fakeProvider{reply: "Go is a language."}
	gw := NewGateway("key", provider, zap.NewNop())

	got, err := gw.Generate(context.Background(), PromptInput{Message: "What is Go?"})

	require.NoError(t, err)
	assert.Equal(t, "Go is a language.", got)
	require.Len(t, provider.prompts, 1)
	assert.Equal(t, BuildPrompt(PromptInput{System: DefaultSystemPrompt, Message: "What is Go?"}), provider.prompts[0])
}

func TestGateway_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection reset")}
	gw := NewGateway("key", provider, zap.NewNop())

	_, err := gw.Generate(context.Background(), PromptInput{Message: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Zero(t, provider.listCalled)
}

func TestGateway_ModelNotFoundListsSample(t *testing.T) {
	provider := &fakeProvider{
		err:    ErrModelNotFound,
		models: []string{"models/a", "models/b", "models/c", "models/d", "models/e", "models/f", "models/g"},
	}
	gw := NewGateway("key", provider, zap.NewNop())

	_, err := gw.Generate(context.Background(), PromptInput{Message: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelNotFound)

	var notFound *ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "gemini-test", notFound.Model)
	assert.Equal(t, []string{"models/a", "models/b", "models/c", "models/d", "models/e"}, notFound.Available)
	assert.Equal(t, 1, provider.listCalled)
	assert.Len(t, provider.prompts, 1)
	assert.Contains(t, err.Error(), "models/e")
	assert.NotContains(t, err.Error(), "models/f")
}

func TestGateway_ModelNotFoundListFails(t *testing.T) {
	provider := &fakeProvider{err: ErrModelNotFound, listErr: errors.New("permission denied")}
	gw := NewGateway("key", provider, zap.NewNop())

	_, err := gw.Generate(context.Background(), PromptInput{Message: "x"})

	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(errors.New("googleapi: Error 404: models/x is not found")))
	assert.True(t, isNotFound(errors.New("rpc error: code = NotFound desc = model not found")))
	assert.False(t, isNotFound(errors.New("quota exceeded")))
}

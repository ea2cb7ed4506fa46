package animation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layersense/internal/config"
	"layersense/internal/domain/entity"
	"layersense/internal/domain/repository"
	"layersense/internal/domain/scene"
	"layersense/internal/workflow/agent"
	"layersense/internal/workflow/agent/agenttest"
	"layersense/internal/workflow/prompt"
	apperrors "layersense/pkg/errors"
)

const validSceneJSON = `{
	"type": "excalidraw",
	"version": 2,
	"source": "http://localhost:3000",
	"elements": [{
		"id": "r1", "type": "rectangle", "x": 10, "y": 20, "width": 100, "height": 50,
		"angle": 0, "strokeColor": "#1e1e1e", "backgroundColor": "transparent",
		"fillStyle": "solid", "strokeWidth": 2, "strokeStyle": "solid",
		"roughness": 1, "opacity": 100, "roundness": null
	}],
	"appState": {"gridSize": 20, "gridStep": 5, "gridModeEnabled": false, "viewBackgroundColor": "#ffffff"},
	"files": {}
}`

type memoryStore struct {
	mu    sync.Mutex
	saved map[string]*entity.Conversation
	ttl   time.Duration
	err   error
}

func (m *memoryStore) Save(_ context.Context, c *entity.Conversation, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]*entity.Conversation)
	}
	m.saved[c.ID] = c
	m.ttl = ttl
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*entity.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.saved[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fixture struct {
	model   *agenttest.ChatModel
	store   *memoryStore
	service *Service
	example string
}

func writeExample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFixture(t *testing.T, opts Options, examplePath string) *fixture {
	t.Helper()
	cfg := &config.Config{}
	fake := &agenttest.ChatModel{Reply: "from manim import *\n\nclass ExcalidrawAnimation(Scene): ..."}
	store := &memoryStore{}

	svc := NewService(
		agent.NewRunner(&agenttest.Factory{Default: fake}),
		NewManimGenerator(cfg, prompt.NewRegistry()),
		NewExampleLoader(examplePath),
		store,
		opts,
	)
	return &fixture{model: fake, store: store, service: svc, example: examplePath}
}

func TestCreateAnimationReturnsUUID(t *testing.T) {
	f := newFixture(t, Options{}, writeExample(t, `{"example": "EXAMPLE_MARKER"}`))

	out, err := f.service.CreateAnimation(context.Background(), AnimationInput{
		Prompt:   "Animate the rectangle",
		JSONData: `{"elements": []}`,
	})
	require.NoError(t, err)

	id, err := uuid.Parse(out.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())

	calls := f.model.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0][0].Content, `{"example": "EXAMPLE_MARKER"}`)
	assert.Equal(t, "Animate the rectangle\n{\"elements\": []}", calls[0][1].Content)

	opts := f.model.LastOptions()
	require.NotNil(t, opts.Model)
	assert.Equal(t, DefaultManimModel, *opts.Model)
}

func TestCreateAnimationDistinctIDs(t *testing.T) {
	f := newFixture(t, Options{}, writeExample(t, "{}"))

	first, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "a", JSONData: "{}"})
	require.NoError(t, err)
	second, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "a", JSONData: "{}"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ConversationID, second.ConversationID)
}

func TestCreateAnimationEmptyInputsAccepted(t *testing.T) {
	f := newFixture(t, Options{}, writeExample(t, "{}"))

	_, err := f.service.CreateAnimation(context.Background(), AnimationInput{})
	require.NoError(t, err)
	assert.Equal(t, "\n", f.model.Calls()[0][1].Content)
}

func TestCreateAnimationMissingExample(t *testing.T) {
	f := newFixture(t, Options{}, filepath.Join(t.TempDir(), "missing.json"))

	_, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: "{}"})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeAssetUnavailable, appErr.Code)
	assert.Equal(t, 500, appErr.HTTPStatus)
	assert.Empty(t, f.model.Calls())
}

func TestCreateAnimationReadsExamplePerRequest(t *testing.T) {
	path := writeExample(t, `"first"`)
	f := newFixture(t, Options{}, path)

	_, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`"second"`), 0o600))
	_, err = f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p"})
	require.NoError(t, err)

	calls := f.model.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0][0].Content, `"first"`)
	assert.Contains(t, calls[1][0].Content, `"second"`)
}

func TestCreateAnimationModelFailure(t *testing.T) {
	f := newFixture(t, Options{}, writeExample(t, "{}"))
	f.model.Err = errors.New("invalid api key")

	_, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: "{}"})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeLLMCallFailed, appErr.Code)
	assert.Equal(t, 500, appErr.HTTPStatus)
}

func TestCreateAnimationIgnoresEmptyReply(t *testing.T) {
	for _, reply := range []string{"", "   \n"} {
		f := newFixture(t, Options{}, writeExample(t, "{}"))
		f.model.Reply = reply

		out, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: "{}"})
		require.NoError(t, err)

		id, err := uuid.Parse(out.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	}
}

func TestCreateAnimationSceneValidation(t *testing.T) {
	f := newFixture(t, Options{ValidateScenes: true}, writeExample(t, "{}"))

	_, err := f.service.CreateAnimation(context.Background(), AnimationInput{
		Prompt:   "p",
		JSONData: `{"elements": [{"type": "triangle"}]}`,
	})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeSceneInvalid, appErr.Code)
	assert.Equal(t, 422, appErr.HTTPStatus)

	var schemaErr *scene.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.True(t, schemaErr.Has("elements[0].type", scene.ReasonNotAllowed))
	assert.Empty(t, f.model.Calls())

	_, err = f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: validSceneJSON})
	require.NoError(t, err)
	assert.Len(t, f.model.Calls(), 1)
}

func TestCreateAnimationWithoutValidationForwardsAnyText(t *testing.T) {
	f := newFixture(t, Options{}, writeExample(t, "{}"))

	_, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: "not json"})
	require.NoError(t, err)
	assert.Equal(t, "p\nnot json", f.model.Calls()[0][1].Content)
}

func TestCreateAnimationPersistsResult(t *testing.T) {
	f := newFixture(t, Options{PersistResults: true, ResultTTL: time.Hour}, writeExample(t, "{}"))

	out, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: "{}"})
	require.NoError(t, err)

	c, err := f.service.Conversation(context.Background(), out.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationStatusCompleted, c.Status)
	assert.Equal(t, f.model.Reply, c.Output())
	assert.Equal(t, "p", c.Prompt)
	assert.Equal(t, time.Hour, f.store.ttl)

	_, err = f.service.Conversation(context.Background(), "unknown")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestCreateAnimationPersistenceFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, Options{PersistResults: true}, writeExample(t, "{}"))
	f.store.err = errors.New("redis down")

	out, err := f.service.CreateAnimation(context.Background(), AnimationInput{Prompt: "p", JSONData: "{}"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ConversationID)
}

func TestGenerateWithExampleOverride(t *testing.T) {
	f := newFixture(t, Options{}, filepath.Join(t.TempDir(), "missing.json"))

	out, err := f.service.Generate(context.Background(), GenerateInput{
		Prompt:      "Transform the rectangle on the left to the rectangle on the right.",
		SceneJSON:   "{}",
		ExampleJSON: `{"override": true}`,
	})
	require.NoError(t, err)
	assert.Equal(t, f.model.Reply, out.Code)
	assert.Equal(t, DefaultManimModel, out.Model)
	assert.Contains(t, f.model.Calls()[0][0].Content, `{"override": true}`)
}

func TestNewManimGeneratorUsesConfiguredAgent(t *testing.T) {
	cfg := &config.Config{Agent: config.AgentConfig{ManimGenerator: config.ManimGeneratorConfig{
		Provider: "azure",
		Model:    "gpt-4o",
	}}}

	a := NewManimGenerator(cfg, prompt.NewRegistry())
	assert.Equal(t, ManimGeneratorName, a.Name)
	assert.Equal(t, "azure", a.Provider)
	assert.Equal(t, "gpt-4o", a.Model)

	instructions, err := a.Instructions(context.Background(), ManimAgentContext{JSONExample: "TESTVALUE"})
	require.NoError(t, err)
	assert.Contains(t, instructions, "TESTVALUE")
}

func TestExampleLoaderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewExampleLoader(writeExample(t, "{}"))
	_, err := l.Load(ctx)
	// 取消的 context 与读取结果竞争，两种结果都可接受
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

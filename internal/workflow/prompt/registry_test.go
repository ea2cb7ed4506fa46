package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryVerify(t *testing.T) {
	require.NoError(t, NewRegistry().Verify())
}

func TestRenderManimInstructionsSubstitutesExample(t *testing.T) {
	r := NewRegistry()

	out, err := r.RenderManimInstructions(context.Background(), ManimGeneratorVars{JSONExample: "TESTVALUE"})
	require.NoError(t, err)

	assert.Contains(t, out, "```JSON\nTESTVALUE\n```")
	assert.NotContains(t, out, "{json_example}")
	assert.Equal(t, 1, strings.Count(out, "TESTVALUE"))
	assert.Contains(t, out, "class ExcalidrawAnimation(Scene):")
	assert.Contains(t, out, "GrowFromCenter")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRegistry()
	vars := ManimGeneratorVars{JSONExample: `{"type": "excalidraw", "elements": []}`}

	first, err := r.RenderManimInstructions(context.Background(), vars)
	require.NoError(t, err)
	second, err := r.RenderManimInstructions(context.Background(), vars)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// 变量值中的花括号不会被再次解析
	assert.Contains(t, first, `{"type": "excalidraw", "elements": []}`)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b_2"}, Placeholders("x {a} {{escaped}} {b_2} {a}"))
	assert.Empty(t, Placeholders("no placeholders {{ here }}"))
}

func TestMatchPlaceholders(t *testing.T) {
	values := ManimGeneratorVars{}.Values()

	assert.NoError(t, matchPlaceholders(PromptManimGeneratorV1, []string{"json_example"}, values))

	err := matchPlaceholders(PromptManimGeneratorV1, nil, values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json_example")

	err = matchPlaceholders(PromptManimGeneratorV1, []string{"json_example", "stray"}, values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stray")
}

func TestChatTemplateUnknownID(t *testing.T) {
	_, err := NewRegistry().ChatTemplate("nope")
	assert.Error(t, err)
}

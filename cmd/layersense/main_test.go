package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "layersense dev")
}

func TestValidateExampleScenes(t *testing.T) {
	for _, name := range []string{
		"example_circle_rectangle_freeform.json",
		"example_rectangle_other_rectangle.json",
	} {
		t.Run(name, func(t *testing.T) {
			out, _, err := execute(t, "validate", filepath.Join("..", "..", "assets", "example_json", name))
			require.NoError(t, err)
			assert.Contains(t, out, `"type": "excalidraw"`)
		})
	}
}

func TestValidateRejectsInvalidScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"elements": [{"type": "star"}]}`), 0o600))

	_, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elements[0].type")
}

func TestLoadEnvFilesSkipsMissing(t *testing.T) {
	assert.NoError(t, loadEnvFiles(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LAYERSENSE_TEST_ENV_VALUE=loaded\n"), 0o600))
	t.Setenv("LAYERSENSE_TEST_ENV_VALUE", "")
	require.NoError(t, os.Unsetenv("LAYERSENSE_TEST_ENV_VALUE"))

	require.NoError(t, loadEnvFiles(path))
	assert.Equal(t, "loaded", os.Getenv("LAYERSENSE_TEST_ENV_VALUE"))
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "export", "render"}, names)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
site:
  templates_dir: ../../templates
  content_file: ../../content/resume.json
  schema_file: ../../templates/resume.schema.json
log:
  level: error
`), 0o644))
	out := filepath.Join(dir, "page", "resume.html")

	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{"render", "--config", cfgPath, "--out", out})
	require.NoError(t, root.Execute())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `id="resume-content"`)
	assert.Contains(t, stdout.String(), "wrote "+out)
}

func TestRenderCommand_MissingExplicitConfig(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"render", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, root.Execute())
}

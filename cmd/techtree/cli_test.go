package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
nodes:
  - id: tokamak
    label: Tokamak
    category: ReactorConcept
    trl: 6
  - id: q-sci
    label: Scientific Breakeven
    category: Milestone
edges:
  - source: tokamak
    target: q-sci
`), 0o644))

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "2 nodes, 1 edges")
	assert.Contains(t, out, "ReactorConcept")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(`
nodes:
  - id: tokamak
    label: Tokamak
    category: Spaceship
`), 0o644))

	_, err = run(t, "validate", broken)
	assert.Error(t, err)
}

func TestValidateCommandRequiresFile(t *testing.T) {
	_, err := run(t, "validate")
	assert.Error(t, err)
}

func TestDeriveRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "derive", "--format", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

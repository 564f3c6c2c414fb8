package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/Harshitk-cp/reason/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worldYAML = `
name: Tiny
axioms:
  - result = a*b + c
  - b = a
  - c = a
truths:
  - d = a + 1
hypotheses:
  - result = a*a + a
think:
  cycles: 5
  creativity_chance: 0.5
  seed: 11
`

func writeWorld(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseWorld(t *testing.T) {
	w, err := parseWorld([]byte(worldYAML))
	require.NoError(t, err)
	assert.Equal(t, "Tiny", w.Name)
	assert.Equal(t, domain.VerifyAxiomPriority, w.Verification)
	assert.Equal(t, domain.LearnStrict, w.Learning)
	assert.Len(t, w.Axioms, 3)
	require.NotNil(t, w.Think.Seed)
	assert.Equal(t, int64(11), *w.Think.Seed)

	_, err = parseWorld([]byte("think: {cycles: -2}"))
	assert.Error(t, err)
	_, err = parseWorld([]byte("axioms: [unclosed"))
	assert.Error(t, err)
}

func TestWorldBuild_Errors(t *testing.T) {
	w, err := parseWorld([]byte("verification: psychic"))
	require.NoError(t, err)
	_, err = w.build(nil)
	assert.True(t, errors.Is(err, service.ErrInvalidMode))

	w, err = parseWorld([]byte("axioms: ['a = (b']"))
	require.NoError(t, err)
	_, err = w.build(nil)
	assert.True(t, errors.Is(err, algebra.ErrParse))
}

func TestVerifyCommand(t *testing.T) {
	path := writeWorld(t, worldYAML)

	out, err := execute(t, "verify", "--world", path, "result = a**2 + a")
	require.NoError(t, err)
	assert.Contains(t, out, "result = a**2 + a: TRUE")

	out, err = execute(t, "verify", "-w", path, "result = a")
	require.NoError(t, err)
	assert.Contains(t, out, "FALSE")

	_, err = execute(t, "verify", "-w", path, "result = (")
	assert.True(t, errors.Is(err, algebra.ErrParse))
}

func TestSolveCommand(t *testing.T) {
	path := writeWorld(t, worldYAML)

	out, err := execute(t, "solve", "--world", path, "a")
	require.NoError(t, err)
	assert.Contains(t, out, "a = d - 1")

	_, err = execute(t, "solve", "--world", path, "b")
	assert.True(t, errors.Is(err, service.ErrNotSolvable))
}

func TestRunCommand(t *testing.T) {
	path := writeWorld(t, worldYAML)

	out, err := execute(t, "run", "--world", path)
	require.NoError(t, err)
	assert.Contains(t, out, "--- State of 'Tiny' ---")
	assert.Contains(t, out, "Hypothesis result = a*a + a: TRUE")
	assert.Contains(t, out, "thinking for 5 cycles (seed 11)")
	assert.Contains(t, out, "Thought for 5 cycles")

	again, err := execute(t, "run", "--world", path)
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed gives the same run")

	out, err = execute(t, "run", "--world", path, "--cycles", "2", "--seed", "4", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "thinking for 2 cycles (seed 4)")
	assert.Contains(t, out, "[cycle 2]")
	assert.Contains(t, out, "accepted axiom: b = a")
}

func TestRunCommand_RequiresWorld(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	out, err := execute(t, "demo", "--seed", "1", "--cycles", "20")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "--- State of 'The Innovator' ---"))
	assert.Contains(t, out, "[A0]: result = a*b + c")
	assert.Contains(t, out, "Hypothesis result = a**2 + a: TRUE")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "reason dev"))
}

package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"

	"github.com/mna/owlc/internal/maincmd"
)

func TestCompilePath_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := "module U { fn main() { 1 + 2 } }"
	path := filepath.Join(dir, "u.owl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	outDir := t.TempDir()
	var stdout, stderr bytes.Buffer
	stdio := mainer.Stdio{Stdout: &stdout, Stderr: &stderr}

	err := maincmd.CompilePath(context.Background(), stdio, path, outDir, false)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(outDir, "U.owlc"))
	require.NoError(t, err)
	require.NotEmpty(t, b)
}

func TestCompilePath_Print(t *testing.T) {
	dir := t.TempDir()
	src := "module U { fn main() { 1 + 2 } }"
	path := filepath.Join(dir, "u.owl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var stdout, stderr bytes.Buffer
	stdio := mainer.Stdio{Stdout: &stdout, Stderr: &stderr}

	err := maincmd.CompilePath(context.Background(), stdio, path, "", true)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "U.main/0:")
	require.Empty(t, stderr.String())
}

func TestCompilePath_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.owl"), []byte("module A { fn main() { 1 } }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.owl"), []byte("module B { fn main() { 2 } }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not owl"), 0o644))

	outDir := t.TempDir()
	var stdout, stderr bytes.Buffer
	stdio := mainer.Stdio{Stdout: &stdout, Stderr: &stderr}

	err := maincmd.CompilePath(context.Background(), stdio, dir, outDir, false)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "A.owlc"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "B.owlc"))
	require.NoError(t, err)
}

func TestCompilePath_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.owl")
	require.NoError(t, os.WriteFile(path, []byte("not owl at all {{{"), 0o644))

	var stdout, stderr bytes.Buffer
	stdio := mainer.Stdio{Stdout: &stdout, Stderr: &stderr}

	err := maincmd.CompilePath(context.Background(), stdio, path, "", false)
	require.Error(t, err)
}

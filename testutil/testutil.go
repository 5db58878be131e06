// Package testutil holds helpers shared by tweakpine tests.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DemoSchema is a small schema document touching every control kind.
const DemoSchema = `speed: [5, 0, 10, 1]
enabled: true
easing:
  value: linear
  options: [linear, ease in]
title: hello
motion:
  visualDuration: 0.4
  bounce: 0.1
effects:
  _collapsed: true
  tint: "#ff8800"
  blur: 0.5
reset:
  type: action
`

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteSchema writes a schema document into a fresh temp dir.
func WriteSchema(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "panel.yml", content)
}

// WriteConfig writes a tweakpine.yml into dir.
func WriteConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return WriteFile(t, dir, "tweakpine.yml", content)
}

// Chdir switches the working directory for the rest of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}

// RandomString generates a random hex string of the given length.
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

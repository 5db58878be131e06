package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAcceptsDemo(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.ValidateYAML([]byte(demoYAML)))
	assert.NoError(t, v.ValidateYAML(nil))
}

func TestValidatorRejects(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	testCases := []struct {
		name string
		doc  string
	}{
		{"select without options", "x: {type: select, options: []}\n"},
		{"untyped select without options", "x: {value: a, options: []}\n"},
		{"bad color", "x: {type: color, value: red}\n"},
		{"short tuple", "x: [1, 2]\n"},
		{"unknown type", "x: {type: knob}\n"},
		{"collapsed not boolean", "_collapsed: maybe\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, v.ValidateYAML([]byte(tc.doc)))
		})
	}
}

func TestValidatorLoadFile(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	require.NoError(t, os.WriteFile(good, []byte(demoYAML), 0644))
	cfg, err := v.LoadFile(good)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Entries)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("x: {type: select, options: []}\n"), 0644))
	_, err = v.LoadFile(bad)
	assert.Error(t, err)
}

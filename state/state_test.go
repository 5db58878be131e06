package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eminiarts/tweakpine/config"
)

func sampleRecord() PanelRecord {
	return PanelRecord{
		ActivePresetID: "p2",
		Presets: []PresetRecord{
			{ID: "p1", Name: "slow", Values: map[string]interface{}{"speed": 1.0, "enabled": false}},
			{ID: "p2", Name: "fast", Values: map[string]interface{}{
				"speed":   8.5,
				"tint":    "#ff8800",
				"enabled": true,
				"motion":  map[string]interface{}{"visualDuration": 0.4, "bounce": 0.1},
			}},
		},
	}
}

// backendContract runs the behaviour every Backend shares.
func backendContract(t *testing.T, b Backend) {
	t.Helper()

	empty, err := b.Load("Never Saved")
	require.NoError(t, err)
	assert.Empty(t, empty.ActivePresetID)
	assert.Empty(t, empty.Presets)

	require.NoError(t, b.Save("Demo", sampleRecord()))
	got, err := b.Load("Demo")
	require.NoError(t, err)

	assert.Equal(t, "p2", got.ActivePresetID)
	require.Len(t, got.Presets, 2)
	assert.Equal(t, "slow", got.Presets[0].Name, "insertion order survives")
	fast := got.Presets[1]
	assert.EqualValues(t, 8.5, fast.Values["speed"])
	assert.Equal(t, "#ff8800", fast.Values["tint"])
	assert.Equal(t, true, fast.Values["enabled"])
	motion, ok := fast.Values["motion"].(map[string]interface{})
	require.True(t, ok, "spring values come back as mappings, got %T", fast.Values["motion"])
	assert.EqualValues(t, 0.4, motion["visualDuration"])

	// Overwrite shrinks the preset list.
	require.NoError(t, b.Save("Demo", PanelRecord{Presets: []PresetRecord{{ID: "p3", Name: "only", Values: map[string]interface{}{}}}}))
	got, err = b.Load("Demo")
	require.NoError(t, err)
	require.Len(t, got.Presets, 1)
	assert.Equal(t, "p3", got.Presets[0].ID)
	assert.Empty(t, got.ActivePresetID)

	// Records are keyed independently.
	require.NoError(t, b.Save("Other", sampleRecord()))
	got, err = b.Load("Demo")
	require.NoError(t, err)
	assert.Len(t, got.Presets, 1)
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	backendContract(t, b)
	assert.ElementsMatch(t, []string{"Demo", "Other"}, b.Keys())
}

func TestMemoryBackendCopies(t *testing.T) {
	b := NewMemoryBackend()
	rec := sampleRecord()
	require.NoError(t, b.Save("Demo", rec))

	rec.Presets[0].Values["speed"] = 99.0
	got, err := b.Load("Demo")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Presets[0].Values["speed"])

	got.Presets[1].Values["motion"].(map[string]interface{})["bounce"] = 0.9
	again, err := b.Load("Demo")
	require.NoError(t, err)
	assert.Equal(t, 0.1, again.Presets[1].Values["motion"].(map[string]interface{})["bounce"])
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "presets")
	b := NewFileBackend(dir, nil)
	backendContract(t, b)

	assert.FileExists(t, b.PathFor("Demo"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".presets-", "temp files are renamed away")
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir, nil)
	require.NoError(t, os.WriteFile(b.PathFor("broken"), []byte("presets: [unclosed"), 0644))

	_, err := b.Load("broken")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "demo", FileName("demo"))
	assert.Equal(t, "my-panel", FileName("my-panel"))

	a := FileName("My Panel")
	b := FileName("my panel")
	assert.NotEqual(t, a, b, "names that sanitize alike keep distinct files")
	assert.Regexp(t, `^my-panel-[0-9a-f]{8}$`, a)

	assert.Regexp(t, `^panel-[0-9a-f]{8}$`, FileName("!!!"))
	assert.LessOrEqual(t, len(FileName("a very long panel name that keeps going well past the fifty character limit")), 59)
}

func TestSQLBackend(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "presets.db"), nil)
	require.NoError(t, err)
	defer b.Close()

	backendContract(t, b)

	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"Demo", "Other"}, keys)
}

func TestOpenSQLiteRequiresDSN(t *testing.T) {
	_, err := OpenSQLite("", nil)
	assert.Error(t, err)
}

func TestPanelRecordClone(t *testing.T) {
	rec := sampleRecord()
	clone := rec.Clone()
	clone.Presets[1].Values["motion"].(map[string]interface{})["bounce"] = 0.7
	clone.Presets[0].Name = "changed"

	assert.Equal(t, 0.1, rec.Presets[1].Values["motion"].(map[string]interface{})["bounce"])
	assert.Equal(t, "slow", rec.Presets[0].Name)

	p, ok := rec.Find("p2")
	require.True(t, ok)
	assert.Equal(t, "fast", p.Name)
	_, ok = rec.Find("nope")
	assert.False(t, ok)
}

func TestGenerateRecordSchema(t *testing.T) {
	data, err := GenerateRecordSchema()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "TweakPine Preset Record", doc["title"])
	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "active_preset_id")
	assert.Contains(t, props, "presets")
}

func TestWatcherReportsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 4)
	w, err := NewWatcher(dir, 50*time.Millisecond, func(path string) { changed <- path }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	b := NewFileBackend(dir, nil)
	require.NoError(t, b.Save("demo", sampleRecord()))

	select {
	case path := <-changed:
		assert.Equal(t, b.PathFor("demo"), path)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	// A burst of writes settles into a single callback.
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Save("demo", sampleRecord()))
	}
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the burst")
	}
	select {
	case extra := <-changed:
		t.Fatalf("unexpected second callback for %s", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 1)
	w, err := NewWatcher(dir, 10*time.Millisecond, func(path string) { changed <- path }, nil)
	require.NoError(t, err)
	defer w.Close()
	go w.Start(context.Background())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.yml"), []byte("x"), 0644))

	select {
	case path := <-changed:
		t.Fatalf("unexpected callback for %s", path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, closeFn, err := Open(config.PresetsConfig{Backend: config.BackendFile, Dir: dir}, nil)
	require.NoError(t, err)
	require.IsType(t, &FileBackend{}, b)
	assert.Equal(t, dir, b.(*FileBackend).Dir())
	assert.NoError(t, closeFn())

	b, _, err = Open(config.PresetsConfig{Backend: config.BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, closeFn, err = Open(config.PresetsConfig{Backend: config.BackendSQLite, DSN: filepath.Join(dir, "p.db")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLBackend{}, b)
	assert.NoError(t, closeFn())

	_, _, err = Open(config.PresetsConfig{Backend: "redis"}, nil)
	assert.Error(t, err)
}

func TestOpenExpandsPresetsDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	b, _, err := Open(config.PresetsConfig{Backend: config.BackendFile, Dir: "~/.tweakpine/presets"}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tweakpine", "presets"), b.(*FileBackend).Dir())
}

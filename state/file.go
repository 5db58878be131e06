package state

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	unsafeFilenameRegex = regexp.MustCompile(`[^a-z0-9_-]+`)
	multiDashRegex      = regexp.MustCompile(`-+`)
)

// FileExt is the extension of record files.
const FileExt = ".yml"

// FileBackend stores each panel record as a YAML file in a directory.
type FileBackend struct {
	dir    string
	mu     sync.Mutex
	logger *logrus.Entry
}

// NewFileBackend stores records under dir, which is created on first save.
func NewFileBackend(dir string, logger *logrus.Entry) *FileBackend {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &FileBackend{dir: dir, logger: logger}
}

// Dir returns the record directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// PathFor returns the file that holds the record for key.
func (b *FileBackend) PathFor(key string) string {
	return filepath.Join(b.dir, FileName(key)+FileExt)
}

func (b *FileBackend) Load(key string) (PanelRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.PathFor(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PanelRecord{}, nil
		}
		return PanelRecord{}, fmt.Errorf("read preset file: %w", err)
	}

	var record PanelRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return PanelRecord{}, fmt.Errorf("parse preset file %s: %w", path, err)
	}
	return record, nil
}

func (b *FileBackend) Save(key string, record PanelRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create preset directory: %w", err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}

	// Write then rename so readers never see a partial file.
	path := b.PathFor(key)
	tmp, err := os.CreateTemp(b.dir, ".presets-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write preset file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close preset file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace preset file: %w", err)
	}

	b.logger.WithFields(logrus.Fields{"key": key, "path": path, "presets": len(record.Presets)}).
		Debug("Saved preset record")
	return nil
}

// FileName turns a panel name into a safe kebab-case file stem. Names that do
// not survive sanitizing unchanged get a short hash suffix so distinct names
// never share a file.
func FileName(key string) string {
	s := strings.ToLower(key)
	s = strings.NewReplacer(" ", "-", ".", "-", "/", "-").Replace(s)
	s = unsafeFilenameRegex.ReplaceAllString(s, "")
	s = multiDashRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	if s == key && s != "" {
		return s
	}

	h := fnv.New32a()
	h.Write([]byte(key))
	suffix := fmt.Sprintf("%08x", h.Sum32())
	if s == "" {
		return "panel-" + suffix
	}
	return s + "-" + suffix
}

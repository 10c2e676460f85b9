package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"tasklist/internal/models"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// exportDocument wraps the collection so every format has a top-level table.
type exportDocument struct {
	Tasks models.Collection `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// FormatFromPath picks an export format from the file extension, falling
// back to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// MarshalCollection encodes c in the given format.
func MarshalCollection(c models.Collection, format string) ([]byte, error) {
	if c == nil {
		c = models.Collection{}
	}
	doc := exportDocument{Tasks: c}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatTOML:
		buf := new(bytes.Buffer)
		err = toml.NewEncoder(buf).Encode(doc)
		data = buf.Bytes()
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks to %s: %w", format, err)
	}
	return data, nil
}

// ExportFile writes c to path in the given format. The file is replaced
// atomically while holding an exclusive lock on path + ".lock".
func ExportFile(path string, c models.Collection, format string) error {
	data, err := MarshalCollection(c, format)
	if err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := path + ".tmp"
	defer func() { _ = os.Remove(tmp) }()

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

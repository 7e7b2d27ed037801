package importfile

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVar matches {{VAR}} placeholders left in exported files.
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a bookmark import file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for filePath
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file being loaded.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the file.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return Parse(data)
}

// Parse decodes import YAML. Template placeholders are blanked first so a
// half-rendered export still parses.
func Parse(data []byte) (File, error) {
	data = templateVar.ReplaceAll(data, []byte(`""`))

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse import yaml: %w", err)
	}
	return f, nil
}

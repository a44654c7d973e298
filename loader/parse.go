package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseFile decodes one configuration file into a mapping. The format
// is chosen by file extension: .toml parses as TOML, everything else
// as YAML. An empty or all-comment file decodes to a nil mapping,
// which the caller merges as a no-op.
func parseFile(path string, data []byte) (map[string]any, error) {
	var config map[string]any

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, &ParseError{
				Path:    path,
				Message: err.Error(),
				Err:     err,
			}
		}
		return config, nil
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	return config, nil
}

package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateMap validates a generic map against the schema file at schemaPath.
func ValidateMap(schemaPath string, m map[string]interface{}) error {
	// absolute file:// reference so relative $refs resolve on every platform
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// LoadResume reads a content file, validates it against schemaPath when
// one is given, and decodes it.
func LoadResume(contentPath, schemaPath string) (*Resume, error) {
	b, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if schemaPath != "" {
		var m map[string]interface{}
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		if err := ValidateMap(schemaPath, m); err != nil {
			return nil, err
		}
	}
	var r Resume
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return &r, nil
}

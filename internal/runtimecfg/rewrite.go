// Package runtimecfg performs targeted updates of the target process's local
// runtime configuration file.
//
// The propagation protocol owns exactly two fields of that file: min_time and
// max_time. Everything else belongs to whoever provisioned the file, so the
// rewrite works on the parsed YAML node tree and touches only those two keys,
// preserving all other fields, their order, and their comments.
package runtimecfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	minTimeKey = "min_time"
	maxTimeKey = "max_time"

	// Conservative all-time bounds used when the config file does not exist
	// yet: a fresh replica serves everything until its first assignment.
	allTimeMin = "0000-01-01T00:00:00Z"
	allTimeMax = "9999-12-31T23:59:59Z"
)

// ApplyTimeRange rewrites the min_time/max_time fields of the runtime config
// at path, creating the file with conservative all-time defaults first when
// it is missing.
//
// The write is atomic (temp file plus rename) so the target process never
// observes a partially written config, and the original file mode is kept.
//
// Parameters:
//   - path: Runtime config file path
//   - minTime, maxTime: New window bounds, written as RFC 3339
//
// Returns:
//   - error: Read, parse, or write failure
func ApplyTimeRange(path string, minTime, maxTime time.Time) error {
	doc, mode, err := loadDocument(path)
	if err != nil {
		return err
	}

	setScalar(doc, minTimeKey, minTime.UTC().Format(time.RFC3339))
	setScalar(doc, maxTimeKey, maxTime.UTC().Format(time.RFC3339))

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode runtime config: %w", err)
	}

	return writeAtomic(path, out, mode)
}

// loadDocument reads and parses the config file into its mapping node,
// substituting the all-time default when the file is missing or empty.
func loadDocument(path string) (*yaml.Node, os.FileMode, error) {
	mode := os.FileMode(0o644)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultDocument(), mode, nil
		}

		return nil, 0, fmt.Errorf("failed to read runtime config: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, 0, fmt.Errorf("failed to parse runtime config: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return defaultDocument(), mode, nil
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, 0, fmt.Errorf("runtime config at %s is not a mapping", path)
	}

	return mapping, mode, nil
}

// defaultDocument builds a fresh config spanning all time.
func defaultDocument() *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setScalar(doc, minTimeKey, allTimeMin)
	setScalar(doc, maxTimeKey, allTimeMax)

	return doc
}

// setScalar updates the value of key in the mapping node, appending the pair
// when the key is absent. Values are emitted single-quoted so RFC 3339
// timestamps stay strings instead of being re-typed by YAML readers.
func setScalar(mapping *yaml.Node, key, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			val := mapping.Content[i+1]
			val.Kind = yaml.ScalarNode
			val.Tag = "!!str"
			val.Value = value
			val.Style = yaml.SingleQuotedStyle

			return
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.SingleQuotedStyle}
	mapping.Content = append(mapping.Content, keyNode, valNode)
}

// writeAtomic writes data to path via a temp file in the same directory.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".runtime-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("failed to write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to close temp config: %w", err)
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to set config mode: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to replace runtime config: %w", err)
	}

	return nil
}

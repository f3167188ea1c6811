package usermgmt

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// record is one top-level entry of a backing file: the entity name as key
// and its attributes as value.
type record[T any] struct {
	Name  string
	Value T
}

// userRecord is the on-disk form of a User.
type userRecord struct {
	Password string `yaml:"password"`
}

// groupRecord is the on-disk form of a UserGroup.
type groupRecord struct {
	Users  []string `yaml:"users"`
	Groups []string `yaml:"groups"`
}

// yamlStore reads and writes a whole YAML mapping file. Entry order in the
// file matches collection order.
type yamlStore struct {
	path string
}

func newYAMLStore(path string) *yamlStore {
	return &yamlStore{path: path}
}

// loadRecords reads the mapping stored at s.path.
// A missing file, an empty file or a null document yields no records.
func loadRecords[T any](s *yamlStore) ([]record[T], error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: line %d: expected a mapping of names", s.path, root.Line)
	}

	records := make([]record[T], 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var v T
		if err := value.Decode(&v); err != nil {
			return nil, fmt.Errorf("parse %s: entry %q: %w", s.path, key.Value, err)
		}
		records = append(records, record[T]{Name: key.Value, Value: v})
	}
	return records, nil
}

// saveRecords writes records as a single mapping, replacing the file atomically.
func saveRecords[T any](s *yamlStore, records []record[T]) error {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, r := range records {
		var value yaml.Node
		if err := value.Encode(r.Value); err != nil {
			return fmt.Errorf("encode %q: %w", r.Name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Name}
		root.Content = append(root.Content, key, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	return s.writeFile(buf.Bytes())
}

// writeFile replaces s.path with data.
func (s *yamlStore) writeFile(data []byte) error {
	return writeAtomic(s.path, data)
}

// backup copies the backing file to dst. The source is read in full before
// dst is replaced, so dst may name the backing file itself.
func (s *yamlStore) backup(dst string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	return writeAtomic(dst, data)
}

// writeAtomic writes data to a temporary file next to path, then renames it
// over path. The result is readable by the owner only.
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tempFile, err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}

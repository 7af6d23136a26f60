package script

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and merges every JSON/YAML script file into a single
// source. Function names must be unique across files.
func LoadFS(fsys fs.FS) (string, error) {
	if fsys == nil {
		return "", nil
	}

	merged := make(map[string][]Step)
	origin := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isScriptFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("script: read %s: %w", path, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return fmt.Errorf("script: file %s is empty", path)
		}

		program, err := Parse(string(data))
		if err != nil {
			return fmt.Errorf("script: file %s: %w", path, err)
		}
		for name, steps := range program.functions {
			if prev, exists := origin[name]; exists {
				return fmt.Errorf("script: duplicate function %q (files %s, %s)", name, prev, path)
			}
			origin[name] = path
			merged[name] = steps
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(merged) == 0 {
		return "", nil
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		var value yaml.Node
		if err := value.Encode(merged[name]); err != nil {
			return "", fmt.Errorf("script: encode %s: %w", name, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, &value)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("script: encode: %w", err)
	}
	return string(out), nil
}

func isScriptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

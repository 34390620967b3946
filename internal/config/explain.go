package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted path and where it came
// from. Paths follow the YAML layout, e.g. "host.cell_width",
// "launcher.modifier_key", "catalog" or "catalog.Notes.width".
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	if strings.HasPrefix(path, "catalog") {
		// An unset field of a file entry comes from that entry.
		for key := path; strings.Contains(key, "."); {
			key = key[:strings.LastIndex(key, ".")]
			if src, ok := res.Sources[key]; ok {
				return value, src, nil
			}
		}
		return value, Source{Kind: SourceBuiltin, Name: "catalog"}, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "catalog" {
		return lookupCatalog(cfg, path, parts[1:])
	}

	// Everything else is a plain struct path, resolved through its YAML form.
	var tree map[string]any
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	var cur any = tree
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		next, ok := m[part]
		if !ok {
			if isOptionalKey(path) {
				return "", nil
			}
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		cur = next
	}
	return cur, nil
}

// isOptionalKey lists fields tagged omitempty that may be absent from the
// marshalled tree.
func isOptionalKey(path string) bool {
	switch path {
	case "display", "xauthority", "logging.file":
		return true
	}
	return false
}

func lookupCatalog(cfg *Config, path string, rest []string) (any, error) {
	if len(rest) == 0 {
		return cfg.Catalog, nil
	}
	if len(rest) > 2 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	var entry *CatalogEntry
	for i := range cfg.Catalog {
		if cfg.Catalog[i].Title == rest[0] {
			entry = &cfg.Catalog[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("unknown catalog entry %q", rest[0])
	}
	if len(rest) == 1 {
		return *entry, nil
	}
	switch rest[1] {
	case "title":
		return entry.Title, nil
	case "width":
		return entry.Width, nil
	case "height":
		return entry.Height, nil
	case "color":
		return entry.Color, nil
	case "icon":
		return entry.Icon, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

// Marshal renders cfg as YAML, suitable for "config print".
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

package config

import "fmt"

// ToMap exports the container as plain nested maps, suitable for YAML or
// JSON encoding. Sections become map[string]any values.
func (c *Config) ToMap() map[string]any {
	out := make(map[string]any, len(c.entries))
	for key, value := range c.entries {
		if section, ok := value.(*Config); ok {
			out[key] = section.ToMap()
			continue
		}
		out[key] = value
	}
	return out
}

// FromMap builds a Config from plain nested maps. Map values stored under
// section keys become nested sections; map values under non-section keys are
// kept as leaves. Integer leaves are widened to int64 so values decoded from
// YAML compare equal to values read from configuration scripts.
func FromMap(m map[string]any) (*Config, error) {
	out := New()
	for key, value := range m {
		if IsSectionKey(key) {
			nested, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s holds %T", ErrSectionValue, key, value)
			}
			section, err := FromMap(nested)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", key, err)
			}
			if err := out.Set(key, section); err != nil {
				return nil, err
			}
			continue
		}
		if err := out.Set(key, normalizeLeaf(value)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func normalizeLeaf(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeLeaf(item)
		}
		return out
	default:
		return value
	}
}

// Package config provides the hierarchical configuration container shared by
// all loaders. A Config maps string keys to either leaf values or nested
// Config sections, supports dotted-path access, and merges recursively with
// section-wise deep union and leaf-level last-writer-wins semantics.
package config

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// reservedNames lists the predeclared identifiers that configuration keys may
// not shadow, mirroring the host attribute-resolution namespace.
var reservedNames = map[string]struct{}{
	"any": {}, "append": {}, "bool": {}, "byte": {}, "cap": {}, "clear": {},
	"close": {}, "comparable": {}, "complex": {}, "complex64": {}, "complex128": {},
	"copy": {}, "delete": {}, "error": {}, "false": {}, "float32": {}, "float64": {},
	"imag": {}, "int": {}, "int8": {}, "int16": {}, "int32": {}, "int64": {},
	"iota": {}, "len": {}, "make": {}, "max": {}, "min": {}, "new": {}, "nil": {},
	"panic": {}, "print": {}, "println": {}, "real": {}, "recover": {}, "rune": {},
	"string": {}, "true": {}, "uint": {}, "uint8": {}, "uint16": {}, "uint32": {},
	"uint64": {}, "uintptr": {},
}

// IsSectionKey reports whether key denotes a nested section. The
// classification is purely syntactic: the first rune is uppercase and the key
// does not carry the internal-marker prefix.
func IsSectionKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "_") {
		return false
	}
	first := []rune(key)[0]
	return unicode.IsUpper(first)
}

// IsReservedName reports whether key collides with a predeclared identifier.
func IsReservedName(key string) bool {
	_, ok := reservedNames[key]
	return ok
}

// Config is a hierarchical configuration container. Keys whose first rune is
// uppercase address nested Config sections; all other keys address leaf
// values. Reading an absent section key creates it (auto-vivification).
// The zero value is not usable; construct with New.
type Config struct {
	entries map[string]any
}

// New returns an empty Config.
func New() *Config {
	return &Config{entries: make(map[string]any)}
}

// Get returns the value stored at key. Absent section keys are created empty
// and stored before being returned, so repeated reads observe one instance.
// Absent non-section keys return ErrKeyNotFound.
func (c *Config) Get(key string) (any, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	if IsSectionKey(key) {
		section := New()
		c.entries[key] = section
		return section, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// Section returns the nested Config at key, creating it when absent. It fails
// when key is not section-shaped.
func (c *Config) Section(key string) (*Config, error) {
	if !IsSectionKey(key) {
		return nil, fmt.Errorf("%w: %q is not a section key", ErrKeyNotFound, key)
	}
	v, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	section, ok := v.(*Config)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", ErrSectionValue, key, v)
	}
	return section, nil
}

// Set stores value at key. Section keys only accept *Config values, and keys
// shadowing predeclared identifiers are rejected.
func (c *Config) Set(key string, value any) error {
	if IsReservedName(key) {
		return fmt.Errorf("%w: %s", ErrReservedName, key)
	}
	if IsSectionKey(key) {
		if _, ok := value.(*Config); !ok {
			return fmt.Errorf("%w: cannot assign %T to %s", ErrSectionValue, value, key)
		}
	}
	c.entries[key] = value
	return nil
}

// Has reports whether key is addressable. Section keys are always
// addressable, reflecting the auto-vivification contract.
func (c *Config) Has(key string) bool {
	if IsSectionKey(key) {
		return true
	}
	_, ok := c.entries[key]
	return ok
}

// HasSection reports whether the section at key has been concretely stored.
func (c *Config) HasSection(key string) bool {
	if !IsSectionKey(key) {
		return false
	}
	_, ok := c.entries[key]
	return ok
}

// HasConcrete reports whether key is present in the underlying mapping,
// ignoring the section auto-vivification rule.
func (c *Config) HasConcrete(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// GetPath resolves a dotted path, auto-vivifying intermediate sections.
func (c *Config) GetPath(path string) (any, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	current := c
	for i, segment := range segments {
		if i == len(segments)-1 {
			return current.Get(segment)
		}
		current, err = current.Section(segment)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
	}
	return current, nil
}

// SetPath assigns value at a dotted path, auto-vivifying intermediate
// sections.
func (c *Config) SetPath(path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	current := c
	for _, segment := range segments[:len(segments)-1] {
		current, err = current.Section(segment)
		if err != nil {
			return fmt.Errorf("path %q: %w", path, err)
		}
	}
	if err := current.Set(segments[len(segments)-1], value); err != nil {
		return fmt.Errorf("path %q: %w", path, err)
	}
	return nil
}

func splitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyPath, path)
		}
	}
	return segments, nil
}

// Merge folds other into the receiver: keys absent from the receiver are
// copied in, common sections merge recursively, and any other collision is
// overwritten by other's value. The receiver never shares structure with
// other afterwards, and other is never mutated.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	for key, value := range other.entries {
		existing, present := c.entries[key]
		if present {
			mine, mineSection := existing.(*Config)
			theirs, theirsSection := value.(*Config)
			if mineSection && theirsSection {
				mine.Merge(theirs)
				continue
			}
		}
		c.entries[key] = adopt(value)
	}
}

// MergeDefaults folds other into the receiver without overwriting: keys
// absent from the receiver are copied in and common sections recurse, while
// existing leaf values are preserved. Subconfig loading uses this so keys a
// parent script set before its load_subconfig call win over the child's.
func (c *Config) MergeDefaults(other *Config) {
	if other == nil {
		return
	}
	for key, value := range other.entries {
		existing, present := c.entries[key]
		if !present {
			c.entries[key] = adopt(value)
			continue
		}
		mine, mineSection := existing.(*Config)
		theirs, theirsSection := value.(*Config)
		if mineSection && theirsSection {
			mine.MergeDefaults(theirs)
		}
	}
}

func adopt(value any) any {
	if section, ok := value.(*Config); ok {
		return section.DeepCopy()
	}
	return value
}

// Copy returns a new container sharing the receiver's values, nested
// sections included.
func (c *Config) Copy() *Config {
	out := New()
	for key, value := range c.entries {
		out.entries[key] = value
	}
	return out
}

// DeepCopy recursively duplicates all nested sections and list leaves.
func (c *Config) DeepCopy() *Config {
	out := New()
	for key, value := range c.entries {
		out.entries[key] = deepCopyValue(value)
	}
	return out
}

func deepCopyValue(value any) any {
	switch v := value.(type) {
	case *Config:
		return v.DeepCopy()
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = deepCopyValue(item)
		}
		return items
	default:
		return v
	}
}

// Keys returns the stored keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (c *Config) Len() int {
	return len(c.entries)
}

// String renders the container as a plain map, for diagnostics.
func (c *Config) String() string {
	return fmt.Sprintf("%v", c.ToMap())
}

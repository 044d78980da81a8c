package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Supported summary output formats.
const (
	SummaryFormatText = "text"
	SummaryFormatJSON = "json"
	SummaryFormatYAML = "yaml"
)

// FormatResolved renders a resolved configuration and its extra arguments in
// the requested format.
func FormatResolved(cfg *Config, extraArgs []string, format string) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("resolved configuration is nil")
	}

	switch strings.ToLower(format) {
	case "", SummaryFormatText:
		return formatResolvedText(cfg, extraArgs)
	case SummaryFormatJSON:
		return formatResolvedJSON(cfg, extraArgs)
	case SummaryFormatYAML:
		return formatResolvedYAML(cfg, extraArgs)
	default:
		return "", fmt.Errorf("unsupported summary format %q", format)
	}
}

func formatResolvedText(cfg *Config, extraArgs []string) (string, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Key\tValue")
	flat := map[string]any{}
	flatten("", cfg, flat)

	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(tw, "%s\t%v\n", path, formatLeafValue(flat[path]))
	}

	if len(extraArgs) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Extra args:\t%s\n", strings.Join(extraArgs, " "))
	}

	if err := tw.Flush(); err != nil {
		return "", fmt.Errorf("flush summary: %w", err)
	}
	return buf.String(), nil
}

func flatten(prefix string, cfg *Config, out map[string]any) {
	for _, key := range cfg.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if section, ok := value.(*Config); ok {
			flatten(path, section, out)
			continue
		}
		out[path] = value
	}
}

func formatResolvedJSON(cfg *Config, extraArgs []string) (string, error) {
	payload := resolvedPayload(cfg, extraArgs)
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary json: %w", err)
	}
	return string(encoded), nil
}

func formatResolvedYAML(cfg *Config, extraArgs []string) (string, error) {
	payload := resolvedPayload(cfg, extraArgs)
	encoded, err := yaml.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal summary yaml: %w", err)
	}
	return string(encoded), nil
}

func resolvedPayload(cfg *Config, extraArgs []string) map[string]any {
	if extraArgs == nil {
		extraArgs = []string{}
	}
	return map[string]any{
		"config":    cfg.ToMap(),
		"extraArgs": extraArgs,
	}
}

func formatLeafValue(value any) any {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ",")
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		return strings.Join(items, ",")
	case nil:
		return "None"
	default:
		return v
	}
}

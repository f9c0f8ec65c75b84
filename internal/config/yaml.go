package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"eipw/internal/lint"
	"eipw/internal/modifiers"
)

type yamlFile struct {
	DefaultLints *bool                `yaml:"default-lints"`
	Fetch        *fetchTable          `yaml:"fetch"`
	Lints        map[string]yaml.Node `yaml:"lints"`
	Modifiers    *[]yaml.Node         `yaml:"modifiers"`
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := DecodeYAML(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeYAML parses configuration in YAML form. Dictionary files resolve
// against base.
func DecodeYAML(data []byte, base string) (*Config, error) {
	var raw yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := Default()
	if raw.DefaultLints != nil {
		cfg.DefaultLints = *raw.DefaultLints
	}
	if raw.Fetch != nil {
		if err := check(raw.Fetch); err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if raw.Fetch.ProposalFormat != "" {
			cfg.ProposalFormat = raw.Fetch.ProposalFormat
		}
	}

	defaults := defaultRules()
	for _, slug := range sortedKeys(raw.Lints) {
		node := raw.Lints[slug]
		var h header
		if err := node.Decode(&h); err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		if err := check(&h); err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		rule := Rule{Enabled: h.Enabled == nil || *h.Enabled, Severity: parseSeverity(h.Severity)}
		if !rule.Enabled && h.Kind == "" {
			cfg.Lints[slug] = rule
			continue
		}

		kind, l, err := newRule(slug, h, defaults)
		if err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		if err := node.Decode(l); err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		var files dictionaryFiles
		if err := node.Decode(&files); err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		if err := loadDictionaries(base, l, files); err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		if err := check(l); err != nil {
			return nil, fmt.Errorf("lints.%s: %w", slug, err)
		}
		rule.Kind, rule.Patch, rule.Lint = kind, h.Kind == "", l
		cfg.Lints[slug] = rule
	}

	if raw.Modifiers != nil {
		cfg.Modifiers = []lint.Modifier{}
		for i, node := range *raw.Modifiers {
			var h modifierHeader
			if err := node.Decode(&h); err != nil {
				return nil, fmt.Errorf("modifiers[%d]: %w", i, err)
			}
			if err := check(&h); err != nil {
				return nil, fmt.Errorf("modifiers[%d]: %w", i, err)
			}
			m, ok := modifiers.New(h.Kind)
			if !ok {
				return nil, fmt.Errorf("modifiers[%d]: unknown kind %q (expected one of: %s)", i, h.Kind, strings.Join(modifiers.Kinds(), ", "))
			}
			if err := node.Decode(m); err != nil {
				return nil, fmt.Errorf("modifiers[%d]: %w", i, err)
			}
			if err := check(m); err != nil {
				return nil, fmt.Errorf("modifiers[%d]: %w", i, err)
			}
			cfg.Modifiers = append(cfg.Modifiers, m)
		}
	}
	return cfg, nil
}

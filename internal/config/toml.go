package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"eipw/internal/lint"
	"eipw/internal/modifiers"
)

type tomlFile struct {
	DefaultLints *bool                     `toml:"default-lints"`
	Fetch        fetchTable                `toml:"fetch"`
	Lints        map[string]toml.Primitive `toml:"lints"`
	Modifiers    []toml.Primitive          `toml:"modifiers"`
}

func loadTOML(path string) (*Config, error) {
	var raw tomlFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg, err := decodeTOML(meta, raw, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeTOML parses configuration text. Dictionary files resolve against base.
func DecodeTOML(text, base string) (*Config, error) {
	var raw tomlFile
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return decodeTOML(meta, raw, base)
}

func decodeTOML(meta toml.MetaData, raw tomlFile, base string) (*Config, error) {
	cfg := Default()
	if raw.DefaultLints != nil {
		cfg.DefaultLints = *raw.DefaultLints
	}
	if err := check(&raw.Fetch); err != nil {
		return nil, fmt.Errorf("[fetch]: %w", err)
	}
	if meta.IsDefined("fetch", "proposal-format") {
		cfg.ProposalFormat = raw.Fetch.ProposalFormat
	}

	defaults := defaultRules()
	disabled := map[string]bool{}
	for _, slug := range sortedKeys(raw.Lints) {
		prim := raw.Lints[slug]
		var h header
		if err := meta.PrimitiveDecode(prim, &h); err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		if err := check(&h); err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		rule := Rule{Enabled: h.Enabled == nil || *h.Enabled, Severity: parseSeverity(h.Severity)}
		if !rule.Enabled && h.Kind == "" {
			disabled[slug] = true
			cfg.Lints[slug] = rule
			continue
		}

		kind, l, err := newRule(slug, h, defaults)
		if err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		if err := meta.PrimitiveDecode(prim, l); err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		var files dictionaryFiles
		if err := meta.PrimitiveDecode(prim, &files); err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		if err := loadDictionaries(base, l, files); err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		if err := check(l); err != nil {
			return nil, fmt.Errorf("[lints.%s]: %w", slug, err)
		}
		rule.Kind, rule.Patch, rule.Lint = kind, h.Kind == "", l
		cfg.Lints[slug] = rule
	}

	if meta.IsDefined("modifiers") {
		cfg.Modifiers = []lint.Modifier{}
	}
	for i, prim := range raw.Modifiers {
		var h modifierHeader
		if err := meta.PrimitiveDecode(prim, &h); err != nil {
			return nil, fmt.Errorf("[[modifiers]] #%d: %w", i+1, err)
		}
		if err := check(&h); err != nil {
			return nil, fmt.Errorf("[[modifiers]] #%d: %w", i+1, err)
		}
		m, ok := modifiers.New(h.Kind)
		if !ok {
			return nil, fmt.Errorf("[[modifiers]] #%d: unknown kind %q (expected one of: %s)", i+1, h.Kind, strings.Join(modifiers.Kinds(), ", "))
		}
		if err := meta.PrimitiveDecode(prim, m); err != nil {
			return nil, fmt.Errorf("[[modifiers]] #%d: %w", i+1, err)
		}
		if err := check(m); err != nil {
			return nil, fmt.Errorf("[[modifiers]] #%d: %w", i+1, err)
		}
		cfg.Modifiers = append(cfg.Modifiers, m)
	}

	if err := undecoded(meta, disabled); err != nil {
		return nil, err
	}
	return cfg, nil
}

// undecoded rejects keys no table claimed, which are usually typos. Tables
// that only disable a rule may keep stale parameters.
func undecoded(meta toml.MetaData, disabled map[string]bool) error {
	var unknown []string
	for _, key := range meta.Undecoded() {
		if len(key) >= 2 && key[0] == "lints" && disabled[key[1]] {
			continue
		}
		unknown = append(unknown, key.String())
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("unknown key(s): %s", strings.Join(unknown, ", "))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

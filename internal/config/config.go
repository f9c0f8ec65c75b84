// Package config loads lint configuration files.
//
// A configuration adjusts the rule set on top of the built-in defaults:
//
//	default-lints = true
//
//	[fetch]
//	proposal-format = "eip-{}"
//
//	[lints.preamble-trim]
//	enabled = false
//
//	[lints.title-no-eip]
//	kind = "preamble-regex"
//	name = "title"
//	mode = "excludes"
//	pattern = "(?i)eip-[0-9]+"
//	message = "titles should not mention proposal numbers"
//
//	[[modifiers]]
//	kind = "set-default-annotation"
//	name = "status"
//	value = "Stagnant"
//	annotation-level = "warning"
//
// A table with a kind replaces or adds the rule under that slug. A table
// without a kind patches the parameters of the default rule with that slug.
// Any [[modifiers]] entry replaces the default modifiers. The same layout is
// accepted as YAML.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"eipw/internal/dict"
	"eipw/internal/lint"
	"eipw/internal/lints"
	"eipw/internal/modifiers"
)

// Rule is one `[lints.<slug>]` table after decoding.
type Rule struct {
	Kind     string
	Patch    bool // no kind given; parameters override the default rule
	Enabled  bool
	Severity lint.Severity
	Lint     lint.Lint // nil when disabled without parameters
}

// Config is a decoded configuration file.
type Config struct {
	Path           string
	DefaultLints   bool
	ProposalFormat string
	Lints          map[string]Rule
	Modifiers      []lint.Modifier // nil keeps the default modifiers

	// Dictionaries resolves spell-check word lists for the rules handed
	// out by Apply and Rule. It is created on first use when nil.
	Dictionaries *dict.Cache
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultLints:   true,
		ProposalFormat: lint.DefaultProposalFormat,
		Lints:          map[string]Rule{},
	}
}

// header holds the keys shared by every lint table.
type header struct {
	Kind     string `toml:"kind" yaml:"kind"`
	Enabled  *bool  `toml:"enabled" yaml:"enabled"`
	Severity string `toml:"severity" yaml:"severity" validate:"omitempty,oneof=default deny warn"`
}

// dictionaryFiles are extra keys for markdown-spell rules; paths are relative
// to the configuration file.
type dictionaryFiles struct {
	Dictionary string `toml:"dictionary-file" yaml:"dictionary-file"`
	Personal   string `toml:"personal-dictionary-file" yaml:"personal-dictionary-file"`
}

type fetchTable struct {
	ProposalFormat string `toml:"proposal-format" yaml:"proposal-format" validate:"omitempty,contains={}"`
}

type modifierHeader struct {
	Kind string `toml:"kind" yaml:"kind" validate:"required"`
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) configuration file.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = loadYAML(path)
	default:
		cfg, err = loadTOML(path)
	}
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Find looks for eipw.toml, .eipw.toml or eipw.yaml in startDir and its
// parents. ok is false when none exists.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range []string{"eipw.toml", ".eipw.toml", "eipw.yaml"} {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, true, nil
			}
			if err != nil && !os.IsNotExist(err) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// newRule prepares the value a lint table decodes into. Without a kind the
// default rule for slug is copied so that only the given keys change.
func newRule(slug string, h header, defaults map[string]lint.Lint) (string, lint.Lint, error) {
	if h.Kind != "" {
		rule, ok := lints.New(h.Kind)
		if !ok {
			return "", nil, fmt.Errorf("unknown kind %q (expected one of: %s)", h.Kind, strings.Join(lints.Kinds(), ", "))
		}
		return h.Kind, rule, nil
	}

	def, ok := defaults[slug]
	if !ok {
		return "", nil, fmt.Errorf("missing kind (`%s` is not a default lint)", slug)
	}
	kind := lints.KindOf(def)
	rule, ok := lints.New(kind)
	if !ok {
		return "", nil, fmt.Errorf("default lint `%s` cannot be configured", slug)
	}
	dst := reflect.ValueOf(rule).Elem()
	src := reflect.ValueOf(def)
	if src.Kind() == reflect.Pointer {
		src = src.Elem()
	}
	dst.Set(src)
	return kind, rule, nil
}

func parseSeverity(s string) lint.Severity {
	switch s {
	case "deny":
		return lint.SeverityDeny
	case "warn":
		return lint.SeverityWarn
	default:
		return lint.SeverityDefault
	}
}

// loadDictionaries appends the word lists named in files to a spell rule.
func loadDictionaries(base string, rule lint.Lint, files dictionaryFiles) error {
	spell, ok := rule.(*lints.Spell)
	if !ok {
		if files != (dictionaryFiles{}) {
			return fmt.Errorf("dictionary files are only valid for markdown-spell")
		}
		return nil
	}
	read := func(name string) (string, error) {
		if name == "" {
			return "", nil
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(base, name)
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("failed to read dictionary: %w", err)
		}
		return string(data), nil
	}
	words, err := read(files.Dictionary)
	if err != nil {
		return err
	}
	personal, err := read(files.Personal)
	if err != nil {
		return err
	}
	spell.Dictionary = joinLists(spell.Dictionary, words)
	spell.Personal = joinLists(spell.Personal, personal)
	return nil
}

func joinLists(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return strings.TrimRight(a, "\n") + "\n" + b
	}
}

func defaultRules() map[string]lint.Lint {
	out := make(map[string]lint.Lint)
	for _, e := range lints.Defaults() {
		out[e.Slug] = e.Lint
	}
	return out
}

// Entry is a rule ready for registration.
type Entry struct {
	Slug     string
	Severity lint.Severity
	Lint     lint.Lint
}

// Entries merges the configuration onto the defaults. With withDefaults
// false only rules declared with a kind remain.
func (c *Config) Entries(withDefaults bool) []Entry {
	out := make(map[string]Entry)
	if withDefaults && c.DefaultLints {
		for _, e := range lints.Defaults() {
			out[e.Slug] = Entry{Slug: e.Slug, Lint: e.Lint}
		}
	}
	for slug, r := range c.Lints {
		switch {
		case !r.Enabled:
			delete(out, slug)
		case r.Lint != nil:
			if _, present := out[slug]; !present && r.Patch {
				continue
			}
			out[slug] = Entry{Slug: slug, Severity: r.Severity, Lint: r.Lint}
		}
	}
	entries := make([]Entry, 0, len(out))
	for _, slug := range slices.Sorted(maps.Keys(out)) {
		entries = append(entries, out[slug])
	}
	return entries
}

// Rule returns the rule for slug from the configuration or the defaults.
func (c *Config) Rule(slug string) (lint.Lint, bool) {
	if r, ok := c.Lints[slug]; ok && r.Lint != nil {
		return c.bind(r.Lint), true
	}
	rule, ok := defaultRules()[slug]
	if !ok {
		return nil, false
	}
	return c.bind(rule), true
}

// bind attaches the configuration's shared resources to rule.
func (c *Config) bind(rule lint.Lint) lint.Lint {
	if c.Dictionaries == nil {
		c.Dictionaries = dict.NewCache(4)
	}
	return lints.WithDictionaries(rule, c.Dictionaries)
}

// Apply registers the configured rules and modifiers on l.
func (c *Config) Apply(l *lint.Linter, withDefaults bool) error {
	for _, e := range c.Entries(withDefaults) {
		if err := l.Register(e.Slug, e.Severity, c.bind(e.Lint)); err != nil {
			return err
		}
	}
	mods := c.Modifiers
	if mods == nil {
		mods = modifiers.Defaults()
	}
	for _, m := range mods {
		l.Modify(m)
	}
	if c.ProposalFormat != "" {
		l.SetProposalFormat(c.ProposalFormat)
	}
	return nil
}

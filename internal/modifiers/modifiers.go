// Package modifiers holds the built-in settings modifiers.
package modifiers

import (
	"maps"
	"slices"
	"strings"

	"eipw/internal/diag"
	"eipw/internal/lint"
)

// SetDefaultAnnotation sets the default annotation level when the preamble
// field Name, trimmed, equals Value.
type SetDefaultAnnotation struct {
	Name  string     `toml:"name" yaml:"name" validate:"required"`
	Value string     `toml:"value" yaml:"value"`
	Level diag.Level `toml:"annotation-level" yaml:"annotation-level"`
}

func (m SetDefaultAnnotation) Modify(ctx *lint.Context, settings *lint.Settings) error {
	field, ok := ctx.Preamble().ByName(m.Name)
	if !ok {
		return nil
	}
	if strings.TrimSpace(field.Value()) == m.Value {
		settings.DefaultAnnotationLevel = m.Level
	}
	return nil
}

// Defaults returns the modifiers applied unless configuration replaces them.
func Defaults() []lint.Modifier {
	return []lint.Modifier{
		SetDefaultAnnotation{Name: "status", Value: "Stagnant", Level: diag.Warning},
		SetDefaultAnnotation{Name: "status", Value: "Withdrawn", Level: diag.Warning},
	}
}

var kinds = map[string]func() lint.Modifier{
	"set-default-annotation": func() lint.Modifier { return &SetDefaultAnnotation{} },
}

// New returns an empty modifier of the given kind, ready to be decoded into.
func New(kind string) (lint.Modifier, bool) {
	mk, ok := kinds[kind]
	if !ok {
		return nil, false
	}
	return mk(), true
}

// Kinds returns every modifier kind name, sorted.
func Kinds() []string {
	return slices.Sorted(maps.Keys(kinds))
}

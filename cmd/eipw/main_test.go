package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eipw/internal/lint"
)

const goodProposal = `---
eip: 1234
title: Widget registry
description: A registry for widgets used by wallets
author: Alice (@alice), Bob <bob@example.com>
discussions-to: https://ethereum-magicians.org/t/widget-registry/1234
status: Draft
type: Standards Track
category: ERC
created: 2024-01-02
requires: 1
---

## Abstract

Text.

## Specification

Text.

## Rationale

Text.

## Security Considerations

Text.

## Copyright

Text.
`

const finalProposal = `---
eip: 1
status: Final
---

body
`

// workspace writes files into a temp dir together with an empty lint config
// and returns the dir.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["eipw.toml"] = ""
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func baseSettings(dir string) *settings {
	return &settings{
		Color:      "off",
		Format:     "text",
		Progress:   "off",
		LintConfig: filepath.Join(dir, "eipw.toml"),
		TraceLevel: "off",
		TraceMode:  "stream",
	}
}

func TestCollectSources(t *testing.T) {
	dir := workspace(t, map[string]string{
		"eip-1.md":         finalProposal,
		"eip-2.MD":         finalProposal,
		"notes.txt":        "x",
		"assets/eip-3.md":  finalProposal,
		"standalone.mdown": "x",
	})

	files, err := collectSources([]string{dir, filepath.Join(dir, "standalone.mdown")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "eip-1.md"),
		filepath.Join(dir, "eip-2.MD"),
		filepath.Join(dir, "standalone.mdown"),
	}, files)

	_, err = collectSources([]string{filepath.Join(dir, "missing.md")})
	assert.Error(t, err)

	_, err = collectSources([]string{filepath.Join(dir, "assets", "..", "assets", "nothing")})
	assert.Error(t, err)
}

func TestCheckAcceptsWellFormedProposal(t *testing.T) {
	dir := workspace(t, map[string]string{
		"eip-1.md":    finalProposal,
		"eip-1234.md": goodProposal,
	})

	var out, errOut bytes.Buffer
	err := check(context.Background(), baseSettings(dir), []string{filepath.Join(dir, "eip-1234.md")}, &out, &errOut)
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestCheckReportsErrors(t *testing.T) {
	broken := strings.Replace(goodProposal, "eip: 1234", "eip: x", 1)
	dir := workspace(t, map[string]string{
		"eip-1.md":    finalProposal,
		"eip-1234.md": broken,
	})

	s := baseSettings(dir)
	s.Format = "json"
	var out, errOut bytes.Buffer
	err := check(context.Background(), s, []string{filepath.Join(dir, "eip-1234.md")}, &out, &errOut)

	var verr *validationError
	require.ErrorAs(t, err, &verr)
	assert.Positive(t, verr.errors)
	assert.Contains(t, verr.Error(), "validation failed with")

	var items []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.NotEmpty(t, items)

	var ids []string
	for _, item := range items {
		if id, ok := item["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	assert.Contains(t, ids, "preamble-eip")
	assert.Contains(t, out.String(), "see https://ethereum.github.io/eipw/preamble-eip/")
}

func TestCheckReportsRepeatedFilesOnce(t *testing.T) {
	broken := strings.Replace(goodProposal, "eip: 1234", "eip: x", 1)
	dir := workspace(t, map[string]string{
		"eip-1.md":    finalProposal,
		"eip-1234.md": broken,
	})
	file := filepath.Join(dir, "eip-1234.md")

	run := func(args ...string) (string, int) {
		var out, errOut bytes.Buffer
		err := check(context.Background(), baseSettings(dir), args, &out, &errOut)
		var verr *validationError
		require.ErrorAs(t, err, &verr)
		return out.String(), verr.errors
	}

	once, onceErrors := run(file)
	twice, twiceErrors := run(file, file)
	assert.Equal(t, once, twice)
	assert.Equal(t, onceErrors, twiceErrors)
}

func TestCheckAllowAndDeny(t *testing.T) {
	broken := strings.Replace(goodProposal, "eip: 1234", "eip: x", 1)
	dir := workspace(t, map[string]string{
		"eip-1.md":    finalProposal,
		"eip-1234.md": broken,
	})
	file := filepath.Join(dir, "eip-1234.md")

	t.Run("allow", func(t *testing.T) {
		s := baseSettings(dir)
		s.Allow = []string{"preamble-eip", "preamble-file-name"}
		var out, errOut bytes.Buffer
		err := check(context.Background(), s, []string{file}, &out, &errOut)
		require.NoError(t, err)
		assert.NotContains(t, out.String(), "preamble-eip")
	})

	t.Run("warn", func(t *testing.T) {
		s := baseSettings(dir)
		s.Warn = []string{"preamble-eip", "preamble-file-name"}
		var out, errOut bytes.Buffer
		err := check(context.Background(), s, []string{file}, &out, &errOut)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "warning[preamble-eip]")
	})

	t.Run("deny without defaults", func(t *testing.T) {
		s := baseSettings(dir)
		s.NoDefaultLints = true
		s.Deny = []string{"preamble-eip"}
		var out, errOut bytes.Buffer
		err := check(context.Background(), s, []string{file}, &out, &errOut)
		var verr *validationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 1, verr.errors)
	})

	t.Run("unknown slug", func(t *testing.T) {
		s := baseSettings(dir)
		s.Deny = []string{"no-such-lint"}
		var out, errOut bytes.Buffer
		err := check(context.Background(), s, []string{file}, &out, &errOut)
		require.ErrorIs(t, err, lint.ErrUnknownSlug)
	})
}

func TestCheckRejectsBadSettings(t *testing.T) {
	dir := workspace(t, map[string]string{"eip-1.md": finalProposal})
	file := filepath.Join(dir, "eip-1.md")

	for name, mutate := range map[string]func(*settings){
		"format":      func(s *settings) { s.Format = "xml" },
		"color":       func(s *settings) { s.Color = "sometimes" },
		"progress":    func(s *settings) { s.Progress = "maybe" },
		"trace level": func(s *settings) { s.TraceLevel = "loud" },
		"lint config": func(s *settings) { s.LintConfig = filepath.Join(dir, "missing.toml") },
	} {
		t.Run(name, func(t *testing.T) {
			s := baseSettings(dir)
			mutate(s)
			var out, errOut bytes.Buffer
			err := check(context.Background(), s, []string{file}, &out, &errOut)
			require.Error(t, err)
			var verr *validationError
			assert.NotErrorAs(t, err, &verr)
		})
	}
}

func TestCheckDumpsTraceRingOnFailure(t *testing.T) {
	broken := strings.Replace(goodProposal, "eip: 1234", "eip: x", 1)
	dir := workspace(t, map[string]string{
		"eip-1.md":    finalProposal,
		"eip-1234.md": broken,
	})

	s := baseSettings(dir)
	s.TraceLevel = "error"
	var out, errOut bytes.Buffer
	err := check(context.Background(), s, []string{filepath.Join(dir, "eip-1234.md")}, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "trace: last events before failure")
	assert.Contains(t, errOut.String(), "lint")
}

func TestListLints(t *testing.T) {
	dir := workspace(t, map[string]string{})
	cfgPath := filepath.Join(dir, "eipw.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[lints.preamble-trim]
enabled = false

[lints.title-no-eip]
kind = "preamble-regex"
name = "title"
mode = "excludes"
pattern = "(?i)eip-[0-9]+"
message = "titles should not mention proposal numbers"
severity = "warn"
`), 0o600))

	s := baseSettings(dir)
	cfg, err := loadLintConfig(s.LintConfig)
	require.NoError(t, err)

	var plain bytes.Buffer
	require.NoError(t, listLints(&plain, cfg, true, false))
	slugs := strings.Fields(plain.String())
	assert.Contains(t, slugs, "preamble-eip")
	assert.Contains(t, slugs, "title-no-eip")
	assert.NotContains(t, slugs, "preamble-trim")
	assert.IsNonDecreasing(t, slugs)

	var kinds bytes.Buffer
	require.NoError(t, listLints(&kinds, cfg, false, true))
	assert.Equal(t, []string{"title-no-eip", "preamble-regex", "warn"}, strings.Fields(kinds.String()))
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\njobs: 3\ndeny:\n  - preamble-eip\n"), 0o600))

	cmd := &cobra.Command{Use: "check"}
	addLintFlags(cmd)
	cmd.Flags().String("progress", "off", "")
	require.NoError(t, cmd.Flags().Set("jobs", "5"))

	v := viper.New()
	configureViper(v, path)
	s, err := loadSettings(v, cmd, true)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Format)
	assert.Equal(t, 5, s.Jobs, "flags win over the settings file")
	assert.Equal(t, []string{"preamble-eip"}, s.Deny)
	assert.Equal(t, "off", s.Progress)

	_, err = loadSettings(viper.New(), cmd, false)
	require.NoError(t, err, "a missing settings file is fine unless named")

	v = viper.New()
	configureViper(v, filepath.Join(dir, "missing.yaml"))
	_, err = loadSettings(v, cmd, true)
	require.Error(t, err)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, "never": uiModeOff} {
		got, err := readUIMode("color", in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("color", "blue")
	require.ErrorContains(t, err, "--color")

	var buf bytes.Buffer
	assert.False(t, uiModeAuto.enabledFor(&buf))
	assert.True(t, uiModeOn.enabledFor(&buf))
}

func TestWatchDirs(t *testing.T) {
	dir := workspace(t, map[string]string{"a/eip-1.md": finalProposal, "a/eip-2.md": finalProposal})
	a := filepath.Join(dir, "a")
	got := watchDirs([]string{filepath.Join(a, "eip-1.md"), filepath.Join(a, "eip-2.md"), a, dir})
	assert.Equal(t, []string{a, dir}, got)
	assert.True(t, isMarkdown("x/EIP-1.MD"))
	assert.False(t, isMarkdown("x/eip.toml"))
}

func TestRenderVersion(t *testing.T) {
	info := versionInfo{Version: "1.2.3", GitCommit: "abc"}

	var pretty bytes.Buffer
	renderVersionPretty(&pretty, info, versionOptions{showHash: true, showDate: true})
	assert.Equal(t, "eipw 1.2.3\ncommit:  abc\nbuilt:   unknown\n", pretty.String())

	var js bytes.Buffer
	require.NoError(t, renderVersionJSON(&js, info, versionOptions{showHash: true}))
	var payload versionPayload
	require.NoError(t, json.Unmarshal(js.Bytes(), &payload))
	assert.Equal(t, versionPayload{Tool: "eipw", Version: "1.2.3", GitCommit: "abc"}, payload)
}

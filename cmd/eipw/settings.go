package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings are the CLI knobs that may come from flags, EIPW_* environment
// variables or a .eipwrc.yaml file, in that order of precedence.
type settings struct {
	Color          string   `mapstructure:"color"`
	Format         string   `mapstructure:"format"`
	Jobs           int      `mapstructure:"jobs"`
	Progress       string   `mapstructure:"progress"`
	LintConfig     string   `mapstructure:"lint-config"`
	NoDefaultLints bool     `mapstructure:"no-default-lints"`
	Deny           []string `mapstructure:"deny"`
	Warn           []string `mapstructure:"warn"`
	Allow          []string `mapstructure:"allow"`
	Trace          string   `mapstructure:"trace"`
	TraceLevel     string   `mapstructure:"trace-level"`
	TraceMode      string   `mapstructure:"trace-mode"`
	TraceRingSize  int      `mapstructure:"trace-ring-size"`
}

// initSettings points the global viper instance at the settings file and the
// environment.
func initSettings() {
	configureViper(viper.GetViper(), settingsPath())
}

func settingsPath() string {
	path, _ := rootCmd.PersistentFlags().GetString("settings")
	return path
}

func configureViper(v *viper.Viper, path string) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".eipwrc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("EIPW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// loadSettings resolves settings for cmd. A missing settings file is fine
// unless it was named explicitly.
func loadSettings(v *viper.Viper, cmd *cobra.Command, explicit bool) (*settings, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, nil
}

func commandSettings(cmd *cobra.Command) (*settings, error) {
	path := settingsPath()
	return loadSettings(viper.GetViper(), cmd, path != "")
}

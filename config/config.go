// Package config loads and validates the .gibr.yaml configuration
// file. Values are carried as immutable structs through the rest of
// the pipeline; nothing reads the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// ErrConfig reports a missing or contradictory setting.
var ErrConfig = errors.New("invalid configuration")

// FileName is the configuration file looked up in the working
// directory and then in the home directory.
const FileName = ".gibr.yaml"

// defaultBranchNameFormat is used when branch_name_format is not
// configured.
const defaultBranchNameFormat = "{type}/{id}-{title}"

// Config is the full gibr configuration.
type Config struct {
	// GitLabMR configures the merge request service boundary.
	GitLabMR GitLabMR `yaml:"gitlab_mr"`
	// Tracker configures the optional issue tracker.
	Tracker Tracker `yaml:"tracker"`
	// BranchNameFormat is the template for generated branch
	// names ({id}, {title}, {assignee}, {type} placeholders).
	BranchNameFormat string `yaml:"branch_name_format"`
	// TranslateTitles enables issue title translation. Defaults
	// to true when absent.
	TranslateTitles *bool `yaml:"translate_titles"`
	// AutoPush pushes newly created branches immediately.
	AutoPush bool `yaml:"auto_push"`
}

// GitLabMR holds the merge request service settings.
type GitLabMR struct {
	// URL is the GitLab instance base URL.
	URL string `yaml:"url"`
	// Token is the access token; ${VAR} references are expanded
	// from the environment at load time.
	Token string `yaml:"token"`
	// Project optionally overrides remote-URL project detection.
	Project string `yaml:"project"`
	// Insecure disables TLS certificate verification.
	Insecure bool `yaml:"insecure"`
	// KeepSource keeps the source branch after merge by default.
	KeepSource bool `yaml:"keep_source"`
}

// Tracker holds issue tracker settings. Kind selects the
// implementation; the remaining fields are read per kind.
type Tracker struct {
	// Kind is one of "github", "gitlab", "jira". Empty disables
	// tracker integration.
	Kind string `yaml:"kind"`
	// URL is the tracker base URL (gitlab, jira).
	URL string `yaml:"url"`
	// Owner is the repository owner (github).
	Owner string `yaml:"owner"`
	// Repo is the repository name (github).
	Repo string `yaml:"repo"`
	// Project is the project path (gitlab).
	Project string `yaml:"project"`
	// User is the API username (jira).
	User string `yaml:"user"`
	// Token is the tracker credential; ${VAR} references are
	// expanded from the environment at load time.
	Token string `yaml:"token"`
}

// Load reads the configuration from path. When path is empty the
// file is searched in the working directory and then in the user's
// home directory. A missing file yields a zero Config without
// error; per-command validation decides what is required.
func Load(path string) (*Config, error) {
	const errCtx = "loading configuration"

	if path == "" {
		found, err := findFile()
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if found == "" {
			return &Config{}, nil
		}

		path = found
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf(
			"%s: read %s: %w", errCtx, path, err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(
			"%s: parse %s: %w", errCtx, path, err,
		)
	}

	cfg.GitLabMR.Token = os.ExpandEnv(cfg.GitLabMR.Token)
	cfg.Tracker.Token = os.ExpandEnv(cfg.Tracker.Token)

	return &cfg, nil
}

// findFile returns the first existing config file location, or
// empty when none exists.
func findFile() (string, error) {
	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf(
			"locate home directory: %w", err,
		)
	}

	homePath := filepath.Join(home, FileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", nil
}

// ValidateMR checks the settings the mr command requires.
func (c *Config) ValidateMR() error {
	const errCtx = "validating gitlab_mr configuration"

	if c.GitLabMR.URL == "" {
		return fmt.Errorf(
			"%s: url must be set: %w",
			errCtx, ErrConfig,
		)
	}

	if c.GitLabMR.Token == "" {
		return fmt.Errorf(
			"%s: token must be set: %w",
			errCtx, ErrConfig,
		)
	}

	return nil
}

// TranslateEnabled reports whether issue titles should be
// translated. Defaults to true when unset.
func (c *Config) TranslateEnabled() bool {
	if c.TranslateTitles == nil {
		return true
	}

	return *c.TranslateTitles
}

// BranchFormat returns the configured branch name format, falling
// back to the default.
func (c *Config) BranchFormat() string {
	if c.BranchNameFormat == "" {
		return defaultBranchNameFormat
	}

	return c.BranchNameFormat
}

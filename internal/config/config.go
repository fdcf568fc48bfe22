// Package config loads lazygitpanel configuration from YAML, git config and
// command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chmouel/lazygitpanel/internal/theme"
	"gopkg.in/yaml.v3"
)

// Config keys understood by parseConfig, also the set accepted by
// command-line and git config overrides.
var knownKeys = []string{
	"auto_refresh",
	"refresh_interval",
	"watch_git_dir",
	"debug_log",
	"theme",
	"show_icons",
	"editor",
	"git_timeout",
}

const (
	defaultRefreshIntervalSeconds = 5
	defaultGitTimeoutSeconds      = 30
	minRefreshInterval            = time.Second
)

// AppConfig defines the global lazygitpanel configuration options.
type AppConfig struct {
	AutoRefresh            bool
	RefreshIntervalSeconds int
	WatchGitDir            bool // Refresh on changes under the workspace .git directory
	DebugLog               string
	Theme                  string
	ShowIcons              bool
	Editor                 string
	GitTimeoutSeconds      int // 0 disables the per-call timeout
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		AutoRefresh:            true,
		RefreshIntervalSeconds: defaultRefreshIntervalSeconds,
		WatchGitDir:            true,
		Theme:                  theme.DraculaName,
		ShowIcons:              true,
		GitTimeoutSeconds:      defaultGitTimeoutSeconds,
	}
}

// RefreshInterval returns the polling period, or 0 when polling is disabled.
// Intervals below one second are clamped up.
func (c *AppConfig) RefreshInterval() time.Duration {
	if c == nil || !c.AutoRefresh || c.RefreshIntervalSeconds <= 0 {
		return 0
	}
	interval := time.Duration(c.RefreshIntervalSeconds) * time.Second
	if interval < minRefreshInterval {
		return minRefreshInterval
	}
	return interval
}

// GitTimeout returns the per-call timeout for git commands, 0 meaning none.
func (c *AppConfig) GitTimeout() time.Duration {
	if c == nil || c.GitTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.GitTimeoutSeconds) * time.Second
}

// ResolveEditor picks the configured editor, then $VISUAL, then $EDITOR,
// falling back to vi.
func (c *AppConfig) ResolveEditor() string {
	if c != nil && strings.TrimSpace(c.Editor) != "" {
		return strings.TrimSpace(c.Editor)
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return "vi"
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true
		case "false", "0", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case []any:
		// multi-valued git config keys: last one wins
		if len(v) == 0 {
			return "", false
		}
		return coerceString(v[len(v)-1])
	}
	return "", false
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.RefreshIntervalSeconds = coerceInt(data["refresh_interval"], cfg.RefreshIntervalSeconds)
	cfg.WatchGitDir = coerceBool(data["watch_git_dir"], cfg.WatchGitDir)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.GitTimeoutSeconds = coerceInt(data["git_timeout"], cfg.GitTimeoutSeconds)

	if debugLog, ok := coerceString(data["debug_log"]); ok && debugLog != "" {
		cfg.DebugLog = debugLog
	}
	if editor, ok := coerceString(data["editor"]); ok && editor != "" {
		cfg.Editor = editor
	}
	if themeName, ok := coerceString(data["theme"]); ok {
		if normalized := theme.Normalize(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}

	if cfg.RefreshIntervalSeconds < 0 {
		cfg.RefreshIntervalSeconds = 0
	}
	if cfg.GitTimeoutSeconds < 0 {
		cfg.GitTimeoutSeconds = 0
	}

	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// DefaultPaths lists the files LoadConfig tries when no explicit path is given.
func DefaultPaths() []string {
	base := filepath.Join(getConfigDir(), "lazygitpanel")
	return []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
	}
}

// LoadConfig builds the configuration from, in increasing precedence: the
// defaults, the YAML file (configPath or the first of DefaultPaths that
// exists), global git config `gp.*` keys, and the `gp.key=value` overrides.
// A missing file is not an error; an unreadable or malformed one is, and the
// defaults are returned alongside it.
func LoadConfig(configPath string, overrides []string) (*AppConfig, error) {
	merged := make(map[string]any)

	fileData, err := loadYAML(configPath)
	if err != nil {
		return DefaultConfig(), err
	}
	for k, v := range fileData {
		merged[k] = v
	}

	gitData, err := loadGitConfig(true, "")
	if err == nil {
		for k, v := range gitData {
			merged[k] = v
		}
	}

	if len(overrides) > 0 {
		cliData, err := parseCLIConfigOverrides(overrides)
		if err != nil {
			return DefaultConfig(), err
		}
		for k, v := range cliData {
			merged[k] = v
		}
	}

	return parseConfig(merged), nil
}

func loadYAML(configPath string) (map[string]any, error) {
	paths := DefaultPaths()
	explicit := configPath != ""
	if explicit {
		expanded, err := expandPath(configPath)
		if err != nil {
			return nil, err
		}
		paths = []string{expanded}
	}

	for _, path := range paths {
		// #nosec G304 -- path comes from the user's own flag or config directory
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && !explicit {
				continue
			}
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s does not exist", path)
			}
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if yamlData == nil {
			yamlData = make(map[string]any)
		}
		return yamlData, nil
	}
	return map[string]any{}, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

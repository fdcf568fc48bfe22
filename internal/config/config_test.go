package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chmouel/lazygitpanel/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config dir at a temp dir and stubs git config so tests
// never read the developer's real settings.
func isolate(t *testing.T, gitOutput string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	gitConfigMock = func(_ []string, _ string) (string, error) {
		return gitOutput, nil
	}
	t.Cleanup(func() { gitConfigMock = nil })
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "lazygitpanel", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, 5, cfg.RefreshIntervalSeconds)
	assert.True(t, cfg.WatchGitDir)
	assert.True(t, cfg.ShowIcons)
	assert.Equal(t, theme.DraculaName, cfg.Theme)
	assert.Equal(t, 30, cfg.GitTimeoutSeconds)
	assert.Empty(t, cfg.DebugLog)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval())
}

func TestRefreshInterval(t *testing.T) {
	tests := []struct {
		name string
		cfg  *AppConfig
		want time.Duration
	}{
		{"nil config", nil, 0},
		{"disabled", &AppConfig{AutoRefresh: false, RefreshIntervalSeconds: 5}, 0},
		{"zero interval", &AppConfig{AutoRefresh: true}, 0},
		{"ten seconds", &AppConfig{AutoRefresh: true, RefreshIntervalSeconds: 10}, 10 * time.Second},
		{"one second", &AppConfig{AutoRefresh: true, RefreshIntervalSeconds: 1}, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.RefreshInterval())
		})
	}
}

func TestGitTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&AppConfig{}).GitTimeout())
	assert.Equal(t, 3*time.Second, (&AppConfig{GitTimeoutSeconds: 3}).GitTimeout())
}

func TestResolveEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", (&AppConfig{}).ResolveEditor())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", (&AppConfig{}).ResolveEditor())

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, "code --wait", (&AppConfig{}).ResolveEditor())

	assert.Equal(t, "hx", (&AppConfig{Editor: " hx "}).ResolveEditor())
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name  string
		input any
		def   bool
		want  bool
	}{
		{"nil uses default", nil, true, true},
		{"bool", false, true, false},
		{"int non-zero", 2, false, true},
		{"string yes", "yes", false, true},
		{"string off", "off", true, false},
		{"garbage uses default", "maybe", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceBool(tt.input, tt.def))
		})
	}
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, 7, coerceInt(nil, 7))
	assert.Equal(t, 3, coerceInt(3, 7))
	assert.Equal(t, 4, coerceInt(4.9, 7))
	assert.Equal(t, 12, coerceInt(" 12 ", 7))
	assert.Equal(t, 7, coerceInt("twelve", 7))
	assert.Equal(t, 7, coerceInt("", 7))
}

func TestParseConfig(t *testing.T) {
	cfg := parseConfig(map[string]any{
		"auto_refresh":     "false",
		"refresh_interval": 12,
		"watch_git_dir":    false,
		"debug_log":        " /tmp/gp.log ",
		"theme":            "Nord",
		"show_icons":       false,
		"editor":           "nvim",
		"git_timeout":      -4,
	})

	assert.False(t, cfg.AutoRefresh)
	assert.Equal(t, 12, cfg.RefreshIntervalSeconds)
	assert.False(t, cfg.WatchGitDir)
	assert.Equal(t, "/tmp/gp.log", cfg.DebugLog)
	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.False(t, cfg.ShowIcons)
	assert.Equal(t, "nvim", cfg.Editor)
	assert.Equal(t, 0, cfg.GitTimeoutSeconds)
}

func TestParseConfigUnknownThemeKeepsDefault(t *testing.T) {
	cfg := parseConfig(map[string]any{"theme": "neon"})
	assert.Equal(t, theme.DraculaName, cfg.Theme)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	isolate(t, "")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromDefaultPath(t *testing.T) {
	dir := isolate(t, "")
	writeConfig(t, dir, "refresh_interval: 9\ntheme: nord\n")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.RefreshIntervalSeconds)
	assert.Equal(t, theme.NordName, cfg.Theme)
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	isolate(t, "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := isolate(t, "")
	path := writeConfig(t, dir, "refresh_interval: [unterminated\n")

	cfg, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := isolate(t, "gp.refresh_interval 20\ngp.theme solarized-light\n")
	writeConfig(t, dir, "refresh_interval: 9\ntheme: nord\nshow_icons: false\n")

	cfg, err := LoadConfig("", []string{"gp.refresh_interval=2"})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.RefreshIntervalSeconds, "CLI override wins")
	assert.Equal(t, theme.SolarizedLightName, cfg.Theme, "git config beats file")
	assert.False(t, cfg.ShowIcons, "file beats defaults")
}

func TestLoadConfigBadOverride(t *testing.T) {
	isolate(t, "")

	_, err := LoadConfig("", []string{"gp.nope=1"})
	require.Error(t, err)
}

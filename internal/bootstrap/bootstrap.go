package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/chmouel/lazygitpanel/internal/app"
	"github.com/chmouel/lazygitpanel/internal/buildinfo"
	"github.com/chmouel/lazygitpanel/internal/config"
	"github.com/chmouel/lazygitpanel/internal/log"
	"github.com/chmouel/lazygitpanel/internal/theme"
)

var (
	isTerminalFunc = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	}
	runProgramFunc = func(model tea.Model) error {
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus()).Run()
		return err
	}
)

// Run executes the command line in args.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return newCommand(stdout, stderr).Run(ctx, args)
}

func newCommand(stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "lazygitpanel",
		Usage:     "A git status panel for your terminal",
		ArgsUsage: "[path]",
		Version:   buildinfo.Version(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands: []*urfavecli.Command{
			statusCommand(stdout, stderr),
			themesCommand(stdout),
			versionCommand(stdout),
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return runTUI(ctx, cmd, stdout, stderr)
		},
	}
}

// runTUI is the default action. Without a terminal it prints the status
// instead.
func runTUI(ctx context.Context, cmd *urfavecli.Command, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, stderr)
	if err != nil {
		return err
	}
	defer closeLog(stderr)

	workspace, err := workspaceArg(cmd)
	if err != nil {
		return err
	}

	if !isTerminalFunc() {
		log.Printf("no terminal, printing status for %s", workspace)
		return printStatus(ctx, cfg, workspace, stdout, stderr)
	}

	model := app.NewModel(cfg, app.Options{Workspace: workspace, Backend: newBackendFunc(cfg)})
	if err := runProgramFunc(model); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func statusCommand(stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "status",
		Usage:     "Print the repository status and exit",
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadConfig(cmd, stderr)
			if err != nil {
				return err
			}
			defer closeLog(stderr)

			workspace, err := workspaceArg(cmd)
			if err != nil {
				return err
			}
			return printStatus(ctx, cfg, workspace, stdout, stderr)
		},
	}
}

func themesCommand(stdout io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "themes",
		Usage: "List available UI themes",
		Action: func(_ context.Context, _ *urfavecli.Command) error {
			for _, name := range theme.AvailableThemes() {
				_, _ = fmt.Fprintln(stdout, name)
			}
			return nil
		},
	}
}

func versionCommand(stdout io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, _ *urfavecli.Command) error {
			buildinfo.Enrich()
			_, err := fmt.Fprint(stdout, buildinfo.Summary())
			return err
		},
	}
}

// loadConfig applies the debug log, the configuration sources and the theme
// flag, in that order.
func loadConfig(cmd *urfavecli.Command, stderr io.Writer) (*config.AppConfig, error) {
	debugLog := cmd.String("debug-log")
	if debugLog != "" {
		setDebugLog(debugLog, stderr)
	}

	cfg, err := config.LoadConfig(cmd.String("config-file"), cmd.StringSlice("config"))
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	switch {
	case debugLog != "":
		cfg.DebugLog = debugLog
	case cfg.DebugLog != "":
		setDebugLog(cfg.DebugLog, stderr)
	default:
		// nothing configured, drop what was buffered
		_ = log.SetFile("")
	}

	if name := cmd.String("theme"); name != "" {
		normalized := theme.Normalize(name)
		if normalized == "" {
			_ = log.Close()
			return nil, fmt.Errorf("unknown theme %q", name)
		}
		cfg.Theme = normalized
	}
	return cfg, nil
}

func setDebugLog(path string, stderr io.Writer) {
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

func closeLog(stderr io.Writer) {
	if err := log.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error closing debug log: %v\n", err)
	}
}

func workspaceArg(cmd *urfavecli.Command) (string, error) {
	path := cmd.Args().First()
	if path == "" {
		path = "."
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

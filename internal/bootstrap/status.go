package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/lazygitpanel/internal/config"
	"github.com/chmouel/lazygitpanel/internal/git"
	"github.com/chmouel/lazygitpanel/internal/log"
	"github.com/chmouel/lazygitpanel/internal/panel"
)

var newBackendFunc = func(cfg *config.AppConfig) panel.Backend {
	return git.NewService(cfg.GitTimeout())
}

// printStatus runs detection and one refresh through a panel without a
// scheduler, then prints the projected view.
func printStatus(_ context.Context, cfg *config.AppConfig, workspace string, stdout, stderr io.Writer) error {
	notify := panel.NotifierFunc(func(message string, severity panel.Severity) {
		_, _ = fmt.Fprintf(stderr, "%s: %s\n", severity, message)
	})
	p := panel.New(newBackendFunc(cfg), notify, panel.Options{
		Visible: true,
		Logf:    log.Named("status"),
	})
	defer p.Destroy()

	p.Drive(p.SetWorkspace(workspace))

	_, err := fmt.Fprintln(stdout, strings.Join(p.View().Lines(), "\n"))
	return err
}
